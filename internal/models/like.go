package models

import (
	"time"
)

// ArticleLike marks that a user currently likes an article. Deleting the row
// is the unlike; the composite unique index caps a user at one like per
// article.
type ArticleLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_article_like" json:"user_id"`
	ArticleID uint      `gorm:"not null;index;uniqueIndex:idx_user_article_like" json:"article_id"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is the comment-side twin of ArticleLike.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;index;uniqueIndex:idx_user_comment_like" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
