package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidStatus = errors.New("invalid status value, use one of: published, draft, all")
	ErrTitleRequired = errors.New("post title is required")
	ErrSlugTaken     = errors.New("a post with this slug already exists")
)

// 列表页与榜单的固定条数
const (
	PageSize      = 5
	trendingLimit = 5
)

// 状态筛选的枚举值。历史实现接受前缀模糊匹配（"pub" 等），这里收紧为
// 精确值，未知取值一律拒绝。
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusAll       = "all"
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title         string
	Content       string
	CoverImageURL string
	Tags          []string
	IsDraft       bool
	GeneratedByAI bool
	AuthorID      uint
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Status string
	Page   int
}

// PostCounts carries status totals computed without the page filter, so tab
// badges stay stable while paging.
type PostCounts struct {
	All       int64 `json:"all"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts      []db.Post  `json:"posts"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int64      `json:"totalCount"`
	Counts     PostCounts `json:"counts"`
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// List provides paginated posts with aggregated counters based on filters.
// Results are sorted by update time descending.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	status, err := normalizeStatus(filter.Status)
	if err != nil {
		return nil, err
	}

	result := &PostListResult{Page: filter.Page}
	if result.Page <= 0 {
		result.Page = 1
	}

	countQuery := applyStatus(s.db.Model(&db.Post{}), status)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * PageSize

	var posts []db.Post
	dataQuery := applyStatus(s.postQuery(), status)
	if err := dataQuery.
		Order("updated_at desc").
		Order("id desc").
		Limit(PageSize).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].PopulateDerivedFields()
	}

	if err := s.db.Model(&db.Post{}).Count(&result.Counts.All).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("is_draft = ?", false).Count(&result.Counts.Published).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("is_draft = ?", true).Count(&result.Counts.Draft).Error; err != nil {
		return nil, err
	}

	result.TotalPages = int((result.Total + PageSize - 1) / PageSize)
	result.Posts = posts
	return result, nil
}

// GetBySlug fetches a single post by its exact slug.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.postQuery().Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	post.PopulateDerivedFields()
	return &post, nil
}

// ListByTag returns published posts carrying the exact tag, newest first.
func (s *PostService) ListByTag(tag string) ([]db.Post, error) {
	var posts []db.Post
	if err := s.postQuery().
		Where("is_draft = ?", false).
		Where("id IN (?)", s.db.Model(&db.PostTag{}).Select("post_id").Where("name = ?", tag)).
		Order("created_at desc").
		Order("id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].PopulateDerivedFields()
	}
	return posts, nil
}

// Search returns published posts whose title or content contains the query
// as a case-insensitive substring. This is a plain substring match against
// both fields, not a ranked full-text search.
func (s *PostService) Search(query string) ([]db.Post, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var posts []db.Post
	if err := s.postQuery().
		Where("is_draft = ?", false).
		Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern).
		Order("created_at desc").
		Order("id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].PopulateDerivedFields()
	}
	return posts, nil
}

// IncrementView bumps the view counter by one. The increment is a single
// relative UPDATE inside the store, so concurrent calls all land; a
// read-modify-write in application code would lose updates.
func (s *PostService) IncrementView(id uint) error {
	return s.incrementCounter(id, "views")
}

// Like bumps the like counter by one. Repeated calls always add one; there
// is no dedup by caller identity.
func (s *PostService) Like(id uint) error {
	return s.incrementCounter(id, "likes")
}

func (s *PostService) incrementCounter(id uint, column string) error {
	res := s.db.Model(&db.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Trending returns published posts ranked by views, ties broken by likes,
// both descending, truncated to a fixed count.
func (s *PostService) Trending() ([]db.Post, error) {
	var posts []db.Post
	if err := s.postQuery().
		Where("is_draft = ?", false).
		Order("views desc").
		Order("likes desc").
		Order("id asc").
		Limit(trendingLimit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].PopulateDerivedFields()
	}
	return posts, nil
}

// Create persists a post and its tag rows in a transaction. The slug is
// derived from the title and must be globally unique.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := Slugify(title)
	if err := s.ensureSlugFree(slug, 0); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:         title,
		Slug:          slug,
		Content:       input.Content,
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		IsDraft:       input.IsDraft,
		GeneratedByAI: input.GeneratedByAI,
		AuthorID:      input.AuthorID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return replaceTags(tx, post.ID, input.Tags)
	}); err != nil {
		return nil, err
	}

	return s.reload(post.ID)
}

// Update applies updates to an existing post. Changing the title re-derives
// the slug; flipping IsDraft moves the post between draft and published.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := existing.Slug
	if title != existing.Title {
		slug = Slugify(title)
		if err := s.ensureSlugFree(slug, existing.ID); err != nil {
			return nil, err
		}
	}

	existing.Title = title
	existing.Slug = slug
	existing.Content = input.Content
	existing.CoverImageURL = strings.TrimSpace(input.CoverImageURL)
	existing.IsDraft = input.IsDraft
	existing.GeneratedByAI = input.GeneratedByAI

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		return replaceTags(tx, existing.ID, input.Tags)
	}); err != nil {
		return nil, err
	}

	return s.reload(existing.ID)
}

// Delete removes a post and its tag rows. Comments are left in place; their
// lifecycle is independent and moderation tooling cleans them up.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&db.PostTag{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&post).Error
	})
}

func (s *PostService) postQuery() *gorm.DB {
	return s.db.Model(&db.Post{}).
		Preload("Author").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("post_tags.position asc")
		})
}

func (s *PostService) reload(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.postQuery().First(&post, id).Error; err != nil {
		return nil, err
	}
	post.PopulateDerivedFields()
	return &post, nil
}

func (s *PostService) ensureSlugFree(slug string, selfID uint) error {
	var existing db.Post
	err := s.db.Where("slug = ? AND id <> ?", slug, selfID).First(&existing).Error
	if err == nil {
		return ErrSlugTaken
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func applyStatus(query *gorm.DB, status string) *gorm.DB {
	switch status {
	case StatusPublished:
		return query.Where("is_draft = ?", false)
	case StatusDraft:
		return query.Where("is_draft = ?", true)
	default:
		return query
	}
}

func normalizeStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return StatusPublished, nil
	}
	switch status {
	case StatusPublished, StatusDraft, StatusAll:
		return status, nil
	}
	return "", ErrInvalidStatus
}

func replaceTags(tx *gorm.DB, postID uint, tags []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&db.PostTag{}).Error; err != nil {
		return err
	}

	rows := make([]db.PostTag, 0, len(tags))
	for i, raw := range tags {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		rows = append(rows, db.PostTag{PostID: postID, Position: i, Name: name})
	}

	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

var slugStrip = regexp.MustCompile(`[^\w-]+`)

// Slugify derives a URL-safe slug from a title: lowercase, spaces become
// hyphens, everything outside [0-9a-z_-] is stripped. Titles that slug to
// nothing (all symbols, non-latin scripts) fall back to a generated id so
// the slug stays non-empty.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStrip.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "post-" + uuid.NewString()[:8]
	}
	return slug
}
