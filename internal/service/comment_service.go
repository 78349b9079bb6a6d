package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrCommentContentEmpty   = errors.New("comment content is required")
	ErrParentCommentNotFound = errors.New("parent comment not found")
	ErrParentPostMismatch    = errors.New("parent comment belongs to another post")
	ErrReplyToReply          = errors.New("replies cannot be nested further")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Add creates a comment on a post, optionally as a reply to a top-level
// comment. The parent must exist, belong to the same post and be top-level:
// the data model supports exactly one nesting level.
func (s *CommentService) Add(postID, authorID uint, content string, parentID *uint) (*db.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrCommentContentEmpty
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	depth := db.CommentDepthTopLevel
	if parentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrParentPostMismatch
		}
		if parent.Depth != db.CommentDepthTopLevel {
			return nil, ErrReplyToReply
		}
		depth = db.CommentDepthReply
	}

	comment := db.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  trimmed,
		ParentID: parentID,
		Depth:    depth,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Author").Preload("Post").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	comment.PopulateDerivedFields()

	return &comment, nil
}

// Delete removes a comment and, in the same transaction, every direct reply
// to it. The cascade is single-level: replies cannot have replies of their
// own, so nothing deeper is hunted.
func (s *CommentService) Delete(commentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment db.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		if err := tx.Unscoped().
			Where("parent_id = ?", comment.ID).
			Delete(&db.Comment{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&comment).Error
	})
}

// ListForPost returns the nested comment tree for one post, oldest first at
// both levels.
func (s *CommentService) ListForPost(postID uint) ([]*CommentNode, error) {
	comments, err := s.fetchSorted(s.db.Where("post_id = ?", postID))
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// ListAll returns the nested comment tree across every post, for moderation
// views.
func (s *CommentService) ListAll() ([]*CommentNode, error) {
	comments, err := s.fetchSorted(s.db)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// fetchSorted 读取评论并保证创建时间升序，树构建依赖这个顺序。
func (s *CommentService) fetchSorted(query *gorm.DB) ([]db.Comment, error) {
	var comments []db.Comment
	if err := query.
		Preload("Author").
		Preload("Post").
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	for i := range comments {
		comments[i].PopulateDerivedFields()
	}

	return comments, nil
}
