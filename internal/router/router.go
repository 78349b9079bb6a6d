package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, sessionSecret, ginMode string) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("inkwell_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	root := r.Group("/api")
	{
		auth := root.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/profile", api.AuthRequired(), api.Profile)
		}

		posts := root.Group("/posts")
		{
			posts.GET("", api.ListPosts)
			posts.GET("/slug/:slug", api.GetPostBySlug)
			posts.GET("/tag/:tag", api.GetPostsByTag)
			posts.GET("/search", api.SearchPosts)
			posts.GET("/trending", api.TrendingPosts)
			posts.POST("/:id/view", api.IncrementView)
			posts.POST("/:id/like", api.AuthRequired(), api.LikePost)

			// 需要管理员权限的写操作
			posts.POST("", api.AuthRequired(), api.AdminRequired(), api.CreatePost)
			posts.PUT("/:id", api.AuthRequired(), api.AdminRequired(), api.UpdatePost)
			posts.DELETE("/:id", api.AuthRequired(), api.AdminRequired(), api.DeletePost)
		}

		comments := root.Group("/comments")
		{
			comments.GET("", api.AuthRequired(), api.AdminRequired(), api.GetAllComments)
			comments.GET("/:postId", api.GetCommentsByPost)
			comments.POST("/:postId", api.AuthRequired(), api.AddComment)
			comments.DELETE("/:commentId", api.AuthRequired(), api.DeleteComment)
		}

		root.GET("/dashboard-summary", api.AuthRequired(), api.AdminRequired(), api.DashboardSummary)

		ai := root.Group("/ai", api.AuthRequired(), api.AdminRequired())
		{
			ai.POST("/generate", api.GenerateAIPost)
			ai.POST("/generate-ideas", api.GenerateAIIdeas)
			ai.POST("/generate-reply", api.GenerateAIReply)
			ai.POST("/generate-summary", api.GenerateAISummary)
		}
	}

	return r
}
