package services

import (
	"errors"
	"strings"

	"github.com/Glutix/blog-musical/internal/models"

	"gorm.io/gorm"
)

// CommentNode is one comment annotated for rendering: whether the viewing
// user likes it, its live like count, and its direct replies materialized so
// a template can walk them any number of times without re-querying.
type CommentNode struct {
	models.Comment
	Liked     bool           `json:"liked"`
	LikeCount int64          `json:"like_count"`
	Replies   []*CommentNode `json:"replies"`
}

// CommentService manages the forest of comments attached to an article.
type CommentService struct {
	db          *gorm.DB
	canModerate func(*models.User) bool
}

// NewCommentService wires the comment engine to a database. canModerate
// decides which users may edit or delete comments they do not own; nil
// falls back to the admin-role check.
func NewCommentService(db *gorm.DB, canModerate func(*models.User) bool) *CommentService {
	if canModerate == nil {
		canModerate = IsModerator
	}
	return &CommentService{db: db, canModerate: canModerate}
}

// ListRootComments returns the article's parentless comments, newest first.
func (s *CommentService) ListRootComments(articleID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// AddComment persists a new comment on the article. The body must be
// non-empty after trimming; that is the only rejection. A parent id that
// does not resolve, or that resolves to a comment on a different article,
// demotes the comment to the root level instead of failing the request.
func (s *CommentService) AddComment(articleID uint, author *models.User, body string, parentID *uint) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Field: "content", Message: "el comentario no puede estar vacío"}
	}

	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var parent *uint
	if parentID != nil {
		var parentComment models.Comment
		if err := s.db.First(&parentComment, *parentID).Error; err == nil && parentComment.ArticleID == article.ID {
			parent = &parentComment.ID
		}
	}

	comment := models.Comment{
		ArticleID: article.ID,
		UserID:    author.ID,
		ParentID:  parent,
		Content:   body,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	comment.User = *author
	return &comment, nil
}

// EditComment replaces the comment body. Only the author or a moderator may
// edit; an empty body is rejected and nothing is written.
func (s *CommentService) EditComment(commentID uint, user *models.User, body string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("User").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if comment.UserID != user.ID && !s.canModerate(user) {
		return nil, ErrPermissionDenied
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Field: "content", Message: "el comentario no puede estar vacío"}
	}

	comment.Content = body
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes the comment, every descendant reply and every like
// referencing any of them, in one transaction. Only the author or a
// moderator may delete. Deletion is permanent; there is no soft delete.
func (s *CommentService) DeleteComment(commentID uint, user *models.User) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if comment.UserID != user.ID && !s.canModerate(user) {
		return ErrPermissionDenied
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// One pass over the article's comments instead of a query per reply
		// level; reply depth is unbounded.
		var all []models.Comment
		if err := tx.Where("article_id = ?", comment.ArticleID).Find(&all).Error; err != nil {
			return err
		}

		children := make(map[uint][]uint, len(all))
		for _, c := range all {
			if c.ParentID != nil {
				children[*c.ParentID] = append(children[*c.ParentID], c.ID)
			}
		}

		doomed := []uint{comment.ID}
		for i := 0; i < len(doomed); i++ {
			doomed = append(doomed, children[doomed[i]]...)
		}

		if err := tx.Where("comment_id IN ?", doomed).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&models.Comment{}).Error
	})
}

// Tree builds the article's annotated comment forest. Roots and reply lists
// are ordered newest first. The whole forest costs three queries regardless
// of depth: the comments, the grouped like counts, and the viewer's likes.
// viewer may be nil for anonymous readers.
func (s *CommentService) Tree(articleID uint, viewer *models.User) ([]*CommentNode, error) {
	var comments []models.Comment
	if err := s.db.Preload("User").
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []*CommentNode{}, nil
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	type countRow struct {
		CommentID uint
		Count     int64
	}
	var rows []countRow
	if err := s.db.Model(&models.CommentLike{}).
		Select("comment_id, COUNT(*) as count").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CommentID] = r.Count
	}

	liked := make(map[uint]bool)
	if viewer != nil {
		var likes []models.CommentLike
		if err := s.db.Where("user_id = ? AND comment_id IN ?", viewer.ID, ids).Find(&likes).Error; err != nil {
			return nil, err
		}
		for _, l := range likes {
			liked[l.CommentID] = true
		}
	}

	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		c := comments[i]
		nodes[c.ID] = &CommentNode{
			Comment:   c,
			Liked:     liked[c.ID],
			LikeCount: counts[c.ID],
			Replies:   []*CommentNode{},
		}
	}

	var roots []*CommentNode
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		} else {
			// Parent row is gone; keep the subtree visible at the root.
			roots = append(roots, node)
		}
	}
	return roots, nil
}
