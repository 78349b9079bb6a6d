package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type commentPayload struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parentComment"`
}

// AddComment 在文章下新增评论，parentComment 非空时作为回复挂到顶层评论下
func (a *API) AddComment(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}

	postID, err := parseUintParam(c, "postId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload commentPayload
	if !bindJSON(c, &payload, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Add(postID, user.ID, payload.Content, payload.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrParentCommentNotFound):
			respondError(c, http.StatusNotFound, "parent comment not found")
		case errors.Is(err, service.ErrCommentContentEmpty),
			errors.Is(err, service.ErrParentPostMismatch),
			errors.Is(err, service.ErrReplyToReply):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to add comment")
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPost 返回单篇文章的嵌套评论树
func (a *API) GetCommentsByPost(c *gin.Context) {
	postID, err := parseUintParam(c, "postId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tree, err := a.comments.ListForPost(postID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, tree)
}

// GetAllComments 返回全站评论树（管理员）
func (a *API) GetAllComments(c *gin.Context) {
	tree, err := a.comments.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, tree)
}

// DeleteComment 删除评论并级联删除其直接回复
func (a *API) DeleteComment(c *gin.Context) {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.Delete(commentID); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "comment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment and its replies deleted successfully"})
}
