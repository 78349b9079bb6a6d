package handler

import (
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db               *gorm.DB
	posts            *service.PostService
	comments         *service.CommentService
	dashboard        *service.DashboardService
	writer           *service.AIWriterService
	adminAccessToken string
}

// NewAPI constructs a handler set with shared services. Every dependency,
// including the AI client, is built here from injected configuration; there
// are no module-level connections.
func NewAPI(gdb *gorm.DB, aiBaseURL, aiAPIKey, aiModel, adminAccessToken string) *API {
	return &API{
		db:               gdb,
		posts:            service.NewPostService(gdb),
		comments:         service.NewCommentService(gdb),
		dashboard:        service.NewDashboardService(gdb),
		writer:           service.NewAIWriterService(aiBaseURL, aiAPIKey, aiModel),
		adminAccessToken: adminAccessToken,
	}
}

// DB exposes the underlying gorm instance for tests and bootstrap paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Writer exposes the AI writer service so tests can swap its HTTP client.
func (a *API) Writer() *service.AIWriterService {
	return a.writer
}
