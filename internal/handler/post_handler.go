package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type postPayload struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	CoverImageURL string   `json:"coverImageUrl"`
	Tags          []string `json:"tags"`
	IsDraft       bool     `json:"isDraft"`
	GeneratedByAI bool     `json:"generatedByAI"`
}

// ListPosts 返回分页的文章列表及各状态的统计数字
func (a *API) ListPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Status: c.Query("status"),
		Page:   parsePageQuery(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPostBySlug 按 slug 返回单篇文章，并附带渲染后的正文 HTML
func (a *API) GetPostBySlug(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}

	rendered, err := service.RenderMarkdown(post.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "contentHtml": rendered})
}

// GetPostsByTag 返回携带指定标签的已发布文章
func (a *API) GetPostsByTag(c *gin.Context) {
	posts, err := a.posts.ListByTag(c.Param("tag"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// SearchPosts 对标题与正文做大小写不敏感的子串搜索
func (a *API) SearchPosts(c *gin.Context) {
	posts, err := a.posts.Search(c.Query("q"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to search posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// IncrementView 浏览计数加一
func (a *API) IncrementView(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.IncrementView(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "view count incremented"})
}

// LikePost 点赞计数加一
func (a *API) LikePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Like(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "like added"})
}

// TrendingPosts 返回按浏览量排序的热门文章
func (a *API) TrendingPosts(c *gin.Context) {
	posts, err := a.posts.Trending()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list trending posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost 创建文章（管理员）
func (a *API) CreatePost(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:         payload.Title,
		Content:       payload.Content,
		CoverImageURL: payload.CoverImageURL,
		Tags:          payload.Tags,
		IsDraft:       payload.IsDraft,
		GeneratedByAI: payload.GeneratedByAI,
		AuthorID:      user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrSlugTaken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost 更新文章（管理员），允许草稿与发布状态互转
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.posts.Update(id, service.PostInput{
		Title:         payload.Title,
		Content:       payload.Content,
		CoverImageURL: payload.CoverImageURL,
		Tags:          payload.Tags,
		IsDraft:       payload.IsDraft,
		GeneratedByAI: payload.GeneratedByAI,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to update post")
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost 删除文章（管理员）
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}
