package services

import (
	"errors"

	"github.com/Glutix/blog-musical/internal/models"

	"gorm.io/gorm"
)

// LikeResult is what the boundary returns to AJAX callers after a toggle.
// TotalLikes is always the live row count at response time, never a cached
// or denormalized figure.
type LikeResult struct {
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int64 `json:"total_likes"`
}

// LikeService flips a user's like on an article or a comment. The composite
// unique index on (user, target) is the concurrency backstop: when two
// identical toggles race, one create fails with a duplicate-key error and
// that request resolves as the unlike instead of surfacing an error.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// ToggleArticleLike creates the user's like on the article, or removes it if
// one already exists, and reports the resulting state and count.
func (s *LikeService) ToggleArticleLike(userID, articleID uint) (*LikeResult, error) {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isLiked := false
	var existing models.ArticleLike
	err := s.db.Where("user_id = ? AND article_id = ?", userID, articleID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.ArticleLike{UserID: userID, ArticleID: articleID}
		if createErr := s.db.Create(&like).Error; createErr != nil {
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, createErr
			}
			// Lost the race against an identical request; the row exists
			// now, so this toggle lands on the delete path.
			if err := s.db.Where("user_id = ? AND article_id = ?", userID, articleID).
				Delete(&models.ArticleLike{}).Error; err != nil {
				return nil, err
			}
		} else {
			isLiked = true
		}
	default:
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.ArticleLike{}).Where("article_id = ?", articleID).Count(&total).Error; err != nil {
		return nil, err
	}
	return &LikeResult{IsLiked: isLiked, TotalLikes: total}, nil
}

// ToggleCommentLike is the comment-side twin of ToggleArticleLike.
func (s *LikeService) ToggleCommentLike(userID, commentID uint) (*LikeResult, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isLiked := false
	var existing models.CommentLike
	err := s.db.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.CommentLike{UserID: userID, CommentID: commentID}
		if createErr := s.db.Create(&like).Error; createErr != nil {
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, createErr
			}
			if err := s.db.Where("user_id = ? AND comment_id = ?", userID, commentID).
				Delete(&models.CommentLike{}).Error; err != nil {
				return nil, err
			}
		} else {
			isLiked = true
		}
	default:
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&total).Error; err != nil {
		return nil, err
	}
	return &LikeResult{IsLiked: isLiked, TotalLikes: total}, nil
}

// ArticleLikeCount returns the live like count for an article.
func (s *LikeService) ArticleLikeCount(articleID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.ArticleLike{}).Where("article_id = ?", articleID).Count(&total).Error
	return total, err
}

// UserLikesArticle reports whether the user currently likes the article.
func (s *LikeService) UserLikesArticle(userID, articleID uint) (bool, error) {
	var like models.ArticleLike
	err := s.db.Where("user_id = ? AND article_id = ?", userID, articleID).First(&like).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
