package models

import (
	"time"
)

type Article struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Slug       string     `gorm:"uniqueIndex;size:220;not null" json:"slug"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Categories []Category `gorm:"many2many:article_categories;" json:"categories"`
	Tags       []Tag      `gorm:"many2many:article_tags;" json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Filled at query time, not stored
	CommentCount int64 `gorm:"-" json:"comment_count"`
	LikeCount    int64 `gorm:"-" json:"like_count"`
}
