package models

import (
	"time"
)

// ArticleView records one view event per (user, article, client IP).
type ArticleView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_article_view" json:"user_id"`
	ArticleID uint      `gorm:"not null;index;uniqueIndex:idx_article_view" json:"article_id"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article"`
	IPAddress string    `gorm:"size:45;not null;uniqueIndex:idx_article_view" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
