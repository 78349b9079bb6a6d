package service

import (
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// 仪表盘榜单的固定条数，以及标签可视化保留的原始条目数
const (
	dashboardTopLimit = 5
	TagChartKeep      = 4
)

// DashboardStats carries the exact-integer counters of the admin dashboard.
// Aggregates over zero rows are 0, never null.
type DashboardStats struct {
	TotalPosts    int64 `json:"totalPosts"`
	Published     int64 `json:"published"`
	Drafts        int64 `json:"drafts"`
	TotalComments int64 `json:"totalComments"`
	AIGenerated   int64 `json:"aiGenerated"`
	TotalViews    int64 `json:"totalViews"`
	TotalLikes    int64 `json:"totalLikes"`
}

// TopPost is the projection used by the dashboard leaderboard.
type TopPost struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	CoverImageURL string `json:"coverImageUrl"`
	Views         int64  `json:"views"`
	Likes         int64  `json:"likes"`
}

// TagUsage 描述单个标签在全部文章中的出现次数
type TagUsage struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// DashboardSummary is the aggregate returned by the dashboard endpoint.
type DashboardSummary struct {
	Stats          DashboardStats `json:"stats"`
	TopPosts       []TopPost      `json:"topPosts"`
	RecentComments []db.Comment   `json:"recentComments"`
	TagUsage       []TagUsage     `json:"tagUsage"`
}

// DashboardService computes engagement aggregates over the post and comment
// corpus.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a DashboardService instance.
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{db: gdb}
}

// Summary produces the full dashboard aggregate: status counts, view/like
// sums, the top-post leaderboard, the newest comments and the raw tag
// frequency table (count descending, name ascending on ties).
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	summary := &DashboardSummary{
		TopPosts:       []TopPost{},
		RecentComments: []db.Comment{},
		TagUsage:       []TagUsage{},
	}

	if err := s.db.Model(&db.Post{}).Count(&summary.Stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("is_draft = ?", false).Count(&summary.Stats.Published).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("is_draft = ?", true).Count(&summary.Stats.Drafts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Comment{}).Count(&summary.Stats.TotalComments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("generated_by_ai = ?", true).Count(&summary.Stats.AIGenerated).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Views int64
		Likes int64
	}
	if err := s.db.Model(&db.Post{}).
		Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes), 0) AS likes").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	summary.Stats.TotalViews = totals.Views
	summary.Stats.TotalLikes = totals.Likes

	if err := s.db.Model(&db.Post{}).
		Select("id, title, cover_image_url, views, likes").
		Where("is_draft = ?", false).
		Order("views desc").
		Order("likes desc").
		Order("id asc").
		Limit(dashboardTopLimit).
		Scan(&summary.TopPosts).Error; err != nil {
		return nil, err
	}

	var recent []db.Comment
	if err := s.db.Model(&db.Comment{}).
		Preload("Author").
		Preload("Post").
		Order("created_at desc").
		Order("id desc").
		Limit(dashboardTopLimit).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	for i := range recent {
		recent[i].PopulateDerivedFields()
	}
	if recent != nil {
		summary.RecentComments = recent
	}

	var usage []TagUsage
	if err := s.db.Table("post_tags").
		Select("name AS tag, COUNT(*) AS count").
		Group("name").
		Order("count desc").
		Order("name asc").
		Scan(&usage).Error; err != nil {
		return nil, err
	}
	if usage != nil {
		summary.TagUsage = usage
	}

	return summary, nil
}

// CollapseTagUsage keeps the top `keep` entries of an already sorted usage
// table verbatim and folds everything after them into a single synthetic
// "Others" bucket with the summed count. It is a presentation-layer helper
// for bounded visualizations; the raw table stays uncollapsed.
func CollapseTagUsage(usage []TagUsage, keep int) []TagUsage {
	if keep < 0 {
		keep = 0
	}
	if len(usage) <= keep {
		out := make([]TagUsage, len(usage))
		copy(out, usage)
		return out
	}

	out := make([]TagUsage, 0, keep+1)
	out = append(out, usage[:keep]...)

	var rest int64
	for _, entry := range usage[keep:] {
		rest += entry.Count
	}
	out = append(out, TagUsage{Tag: "Others", Count: rest})

	return out
}
