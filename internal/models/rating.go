package models

import (
	"time"
)

// ArticleRating holds a user's score for an article, one row per
// (user, article); re-rating overwrites the value.
type ArticleRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_article_rating" json:"user_id"`
	ArticleID uint      `gorm:"not null;index;uniqueIndex:idx_user_article_rating" json:"article_id"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
