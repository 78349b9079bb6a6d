package db

import "gorm.io/gorm"

// Post 定义了文章模型，content 为 markdown 文本
type Post struct {
	gorm.Model
	Title         string    `gorm:"not null" json:"title"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content       string    `json:"content"`
	CoverImageURL string    `json:"coverImageUrl"`
	IsDraft       bool      `gorm:"default:false" json:"isDraft"`
	Views         int64     `gorm:"default:0" json:"views"`
	Likes         int64     `gorm:"default:0" json:"likes"`
	GeneratedByAI bool      `gorm:"default:false" json:"generatedByAI"`
	AuthorID      uint      `gorm:"index;not null" json:"authorId"`
	Author        User      `json:"author"`
	Tags          []PostTag `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TagList       []string  `gorm:"-" json:"tags"`
}

// PopulateDerivedFields 在查询后填充序列化用的派生字段。
func (p *Post) PopulateDerivedFields() {
	p.TagList = p.TagNames()
}

// PostTag 为文章标签的单次出现，按 Position 保序，允许同名重复。
// 标签归属于文章本身而非共享词表，因此不做唯一化。
type PostTag struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PostID   uint   `gorm:"index" json:"-"`
	Position int    `json:"-"`
	Name     string `gorm:"index" json:"name"`
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (PostTag) TableName() string {
	return "post_tags"
}

// TagNames 按位置顺序返回标签名列表。
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}
