package db

import "gorm.io/gorm"

// 评论深度：数据模型只允许一层回复。Depth 在创建时校验，
// 放开多层嵌套必须是一次显式的模型变更，而不是意外的深递归。
const (
	CommentDepthTopLevel = 0
	CommentDepthReply    = 1
)

// Comment 定义了评论模型，ParentID 为空表示顶层评论
type Comment struct {
	gorm.Model
	PostID   uint   `gorm:"index;not null" json:"postId"`
	Post     Post   `json:"-"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Author   User   `json:"author"`
	Content  string `gorm:"not null" json:"content"`
	ParentID *uint  `gorm:"index" json:"parentComment"`
	Depth    int    `gorm:"default:0" json:"depth"`

	// PostRef 为序列化用的文章摘要，避免在每条评论里携带全文
	PostRef *CommentPostRef `gorm:"-" json:"post,omitempty"`
}

// CommentPostRef 描述评论展示时附带的文章信息。
type CommentPostRef struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	CoverImageURL string `json:"coverImageUrl"`
}

// PopulateDerivedFields 在查询后填充序列化用的派生字段。
func (c *Comment) PopulateDerivedFields() {
	if c.Post.ID == 0 {
		return
	}
	c.PostRef = &CommentPostRef{
		ID:            c.Post.ID,
		Title:         c.Post.Title,
		Slug:          c.Post.Slug,
		CoverImageURL: c.Post.CoverImageURL,
	}
}
