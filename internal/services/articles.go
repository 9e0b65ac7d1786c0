package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Glutix/blog-musical/internal/models"
	"github.com/Glutix/blog-musical/internal/utils"

	"gorm.io/gorm"
)

// Form minimums carried over from the article submission form.
const (
	TitleMinLen   = 5
	TitleMaxLen   = 200
	ContentMinLen = 50
)

// ArticleInput carries the user-editable fields of an article. Category and
// tag ids that do not resolve are silently dropped.
type ArticleInput struct {
	Title       string
	Content     string
	CategoryIDs []uint
	TagIDs      []uint
}

// ArticleService owns article CRUD, slug uniqueness and view tracking.
type ArticleService struct {
	db          *gorm.DB
	canModerate func(*models.User) bool
}

func NewArticleService(db *gorm.DB, canModerate func(*models.User) bool) *ArticleService {
	if canModerate == nil {
		canModerate = IsModerator
	}
	return &ArticleService{db: db, canModerate: canModerate}
}

func validateArticleInput(in *ArticleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	titleLen := len([]rune(in.Title))
	if titleLen < TitleMinLen {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("el título debe tener al menos %d caracteres", TitleMinLen)}
	}
	if titleLen > TitleMaxLen {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("el título no puede superar %d caracteres", TitleMaxLen)}
	}
	if len([]rune(in.Content)) < ContentMinLen {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("el contenido debe tener al menos %d caracteres", ContentMinLen)}
	}
	return nil
}

// uniqueSlug derives a slug from the title and appends a numeric suffix
// until no other article carries it. excludeID skips the article itself when
// re-slugging on edit. The unique index on slug is the backstop for
// concurrent collisions.
func (s *ArticleService) uniqueSlug(title string, excludeID uint) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "articulo"
	}

	slug := base
	for counter := 1; ; counter++ {
		var count int64
		query := s.db.Model(&models.Article{}).Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// Create persists a new article owned by author, with its category and tag
// associations, under a freshly derived unique slug.
func (s *ArticleService) Create(author *models.User, in ArticleInput) (*models.Article, error) {
	if err := validateArticleInput(&in); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(in.Title, 0)
	if err != nil {
		return nil, err
	}

	article := models.Article{
		Title:   in.Title,
		Content: in.Content,
		Slug:    slug,
		UserID:  author.ID,
	}

	if len(in.CategoryIDs) > 0 {
		if err := s.db.Find(&article.Categories, in.CategoryIDs).Error; err != nil {
			return nil, err
		}
	}
	if len(in.TagIDs) > 0 {
		if err := s.db.Find(&article.Tags, in.TagIDs).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}
	article.User = *author
	return &article, nil
}

// GetBySlug loads one article with its author, categories and tags.
func (s *ArticleService) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := s.db.Preload("User").Preload("Categories").Preload("Tags").
		Where("slug = ?", slug).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// List returns all articles newest first, with comment and like counters
// filled in batch.
func (s *ArticleService) List() ([]models.Article, error) {
	var articles []models.Article
	if err := s.db.Preload("User").Preload("Categories").
		Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	if err := s.fillCounts(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListByUser returns the articles authored by one user, newest first.
func (s *ArticleService) ListByUser(userID uint) ([]models.Article, error) {
	var articles []models.Article
	if err := s.db.Preload("User").Preload("Categories").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	if err := s.fillCounts(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListByCategory returns the articles associated with a category, newest
// first.
func (s *ArticleService) ListByCategory(categoryID uint) ([]models.Article, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var articles []models.Article
	if err := s.db.Preload("User").Preload("Categories").
		Joins("JOIN article_categories ON article_categories.article_id = articles.id").
		Where("article_categories.category_id = ?", categoryID).
		Order("articles.created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	if err := s.fillCounts(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// fillCounts batch-loads comment and like counts for a page of articles, one
// grouped query per counter instead of two per row.
func (s *ArticleService) fillCounts(articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	articleIDs := make([]uint, len(articles))
	for i, a := range articles {
		articleIDs[i] = a.ID
	}

	type countRow struct {
		ArticleID uint
		Count     int64
	}

	var commentRows []countRow
	if err := s.db.Model(&models.Comment{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&commentRows).Error; err != nil {
		return err
	}
	commentCounts := make(map[uint]int64, len(commentRows))
	for _, r := range commentRows {
		commentCounts[r.ArticleID] = r.Count
	}

	var likeRows []countRow
	if err := s.db.Model(&models.ArticleLike{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&likeRows).Error; err != nil {
		return err
	}
	likeCounts := make(map[uint]int64, len(likeRows))
	for _, r := range likeRows {
		likeCounts[r.ArticleID] = r.Count
	}

	for i := range articles {
		articles[i].CommentCount = commentCounts[articles[i].ID]
		articles[i].LikeCount = likeCounts[articles[i].ID]
	}
	return nil
}

// Update rewrites the article's fields and associations. Only the owner or a
// moderator may edit. When the title changed, the slug is re-derived with
// the article itself excluded from the uniqueness scan, so saving an
// unchanged title keeps the slug stable.
func (s *ArticleService) Update(articleID uint, user *models.User, in ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if article.UserID != user.ID && !s.canModerate(user) {
		return nil, ErrPermissionDenied
	}

	if err := validateArticleInput(&in); err != nil {
		return nil, err
	}

	if in.Title != article.Title {
		slug, err := s.uniqueSlug(in.Title, article.ID)
		if err != nil {
			return nil, err
		}
		article.Slug = slug
	}
	article.Title = in.Title
	article.Content = in.Content

	var categories []models.Category
	if len(in.CategoryIDs) > 0 {
		if err := s.db.Find(&categories, in.CategoryIDs).Error; err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if len(in.TagIDs) > 0 {
		if err := s.db.Find(&tags, in.TagIDs).Error; err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&article).Error; err != nil {
			return err
		}
		if err := tx.Model(&article).Association("Categories").Replace(categories); err != nil {
			return err
		}
		return tx.Model(&article).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	article.Categories = categories
	article.Tags = tags
	return &article, nil
}

// Delete removes the article and everything hanging off it: comments and
// their likes, article likes, views, ratings and the category/tag join rows,
// all in one transaction. Only the owner or a moderator may delete.
func (s *ArticleService) Delete(articleID uint, user *models.User) error {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if article.UserID != user.ID && !s.canModerate(user) {
		return ErrPermissionDenied
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("article_id = ?", article.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleRating{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&article).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&article).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

// RecordView marks that the user viewed the article from the given IP. The
// same (user, article, IP) triple is recorded once; replays are a no-op,
// including the one where two first views race on the unique index.
func (s *ArticleService) RecordView(userID, articleID uint, ip string) error {
	var existing models.ArticleView
	err := s.db.Where("user_id = ? AND article_id = ? AND ip_address = ?", userID, articleID, ip).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	view := models.ArticleView{UserID: userID, ArticleID: articleID, IPAddress: ip}
	if err := s.db.Create(&view).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

// ViewCount returns how many distinct (user, IP) pairs viewed the article.
func (s *ArticleService) ViewCount(articleID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.ArticleView{}).Where("article_id = ?", articleID).Count(&total).Error
	return total, err
}
