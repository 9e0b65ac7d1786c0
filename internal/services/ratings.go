package services

import (
	"errors"

	"github.com/Glutix/blog-musical/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// RatingSummary is the aggregate view of an article's ratings.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RatingService stores one rating per (user, article); re-rating replaces
// the previous value.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Rate upserts the user's rating for the article.
func (s *RatingService) Rate(userID, articleID uint, rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return &ValidationError{Field: "rating", Message: "la valoración debe estar entre 1 y 5"}
	}

	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	row := models.ArticleRating{UserID: userID, ArticleID: articleID, Rating: rating}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"rating": rating}),
	}).Create(&row).Error
}

// Summary computes the live average and count of the article's ratings.
func (s *RatingService) Summary(articleID uint) (*RatingSummary, error) {
	var out RatingSummary
	err := s.db.Model(&models.ArticleRating{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("article_id = ?", articleID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
