package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// GenerateAIPost 按标题与语气生成一篇 Markdown 博文
func (a *API) GenerateAIPost(c *gin.Context) {
	var payload struct {
		Title string `json:"title"`
		Tone  string `json:"tone"`
	}
	if !bindJSON(c, &payload, "invalid generation payload") {
		return
	}

	content, err := a.writer.GeneratePost(c.Request.Context(), payload.Title, payload.Tone)
	if err != nil {
		a.respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

// GenerateAIIdeas 围绕主题生成一组选题建议
func (a *API) GenerateAIIdeas(c *gin.Context) {
	var payload struct {
		Topic string `json:"topic"`
	}
	if !bindJSON(c, &payload, "invalid generation payload") {
		return
	}

	ideas, err := a.writer.GenerateIdeas(c.Request.Context(), payload.Topic)
	if err != nil {
		a.respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// GenerateAIReply 为一条评论草拟回复
func (a *API) GenerateAIReply(c *gin.Context) {
	var payload struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "invalid generation payload") {
		return
	}

	reply, err := a.writer.GenerateReply(c.Request.Context(), payload.Author, payload.Content)
	if err != nil {
		a.respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// GenerateAISummary 为文章正文生成摘要与要点
func (a *API) GenerateAISummary(c *gin.Context) {
	var payload struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "invalid generation payload") {
		return
	}

	summary, err := a.writer.GenerateSummary(c.Request.Context(), payload.Content)
	if err != nil {
		a.respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (a *API) respondAIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAITitleToneRequired),
		errors.Is(err, service.ErrAITopicRequired),
		errors.Is(err, service.ErrAICommentRequired),
		errors.Is(err, service.ErrAIContentRequired):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAIAPIKeyMissing):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "ai generation failed")
	}
}
