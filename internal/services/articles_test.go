package services

import (
	"strings"
	"testing"

	"github.com/Glutix/blog-musical/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput(title string) ArticleInput {
	return ArticleInput{
		Title:   title,
		Content: strings.Repeat("do re mi ", 10),
	}
}

func TestCreateArticleAppendsSlugSuffix(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)

	a1, err := s.Create(user, validInput("Grandes éxitos"))
	require.NoError(t, err)
	a2, err := s.Create(user, validInput("Grandes éxitos"))
	require.NoError(t, err)
	a3, err := s.Create(user, validInput("Grandes éxitos"))
	require.NoError(t, err)

	assert.Equal(t, "grandes-exitos", a1.Slug)
	assert.Equal(t, "grandes-exitos-1", a2.Slug)
	assert.Equal(t, "grandes-exitos-2", a3.Slug)
}

func TestCreateArticleValidation(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)

	_, err := s.Create(user, ArticleInput{Title: "Hey", Content: strings.Repeat("x", 60)})
	assert.True(t, IsValidation(err), "short title")

	_, err = s.Create(user, ArticleInput{Title: strings.Repeat("a", 201), Content: strings.Repeat("x", 60)})
	assert.True(t, IsValidation(err), "long title")

	_, err = s.Create(user, ArticleInput{Title: "Título válido", Content: "corto"})
	assert.True(t, IsValidation(err), "short content")

	var count int64
	require.NoError(t, gdb.Model(&models.Article{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateArticleWithAssociations(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)

	rock := models.Category{Name: "Rock"}
	jazz := models.Category{Name: "Jazz"}
	require.NoError(t, gdb.Create(&rock).Error)
	require.NoError(t, gdb.Create(&jazz).Error)
	live := models.Tag{Name: "directo"}
	require.NoError(t, gdb.Create(&live).Error)

	in := validInput("Crónica del festival")
	in.CategoryIDs = []uint{rock.ID, jazz.ID}
	in.TagIDs = []uint{live.ID}

	article, err := s.Create(user, in)
	require.NoError(t, err)

	loaded, err := s.GetBySlug(article.Slug)
	require.NoError(t, err)
	assert.Len(t, loaded.Categories, 2)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "directo", loaded.Tags[0].Name)
	assert.Equal(t, "ana", loaded.User.Username)
}

func TestGetBySlugNotFound(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)

	_, err := s.GetBySlug("no-existe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsSlugForUnchangedTitle(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)

	article, err := s.Create(user, validInput("Grandes éxitos"))
	require.NoError(t, err)

	in := validInput("Grandes éxitos")
	in.Content = strings.Repeat("nueva versión ", 5)
	updated, err := s.Update(article.ID, user, in)
	require.NoError(t, err)

	// Same title must not pick up a -1 suffix from colliding with itself
	assert.Equal(t, article.Slug, updated.Slug)
	assert.Contains(t, updated.Content, "nueva versión")
}

func TestUpdateReslugsOnTitleChange(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)

	article, err := s.Create(user, validInput("Grandes éxitos"))
	require.NoError(t, err)
	_, err = s.Create(user, validInput("Otro título más"))
	require.NoError(t, err)

	updated, err := s.Update(article.ID, user, validInput("Otro título más"))
	require.NoError(t, err)
	assert.Equal(t, "otro-titulo-mas-1", updated.Slug)
}

func TestUpdateOwnership(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	owner := createTestUser(t, gdb, "ana", models.RoleUser)
	stranger := createTestUser(t, gdb, "bruno", models.RoleUser)
	admin := createTestUser(t, gdb, "mod", models.RoleAdmin)

	article, err := s.Create(owner, validInput("Grandes éxitos"))
	require.NoError(t, err)

	_, err = s.Update(article.ID, stranger, validInput("Título robado"))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var unchanged models.Article
	require.NoError(t, gdb.First(&unchanged, article.ID).Error)
	assert.Equal(t, "Grandes éxitos", unchanged.Title)

	_, err = s.Update(article.ID, admin, validInput("Título moderado"))
	assert.NoError(t, err)
}

func TestDeleteArticleCascades(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	comments := NewCommentService(gdb, nil)
	likes := NewLikeService(gdb)
	ratings := NewRatingService(gdb)
	u1 := createTestUser(t, gdb, "ana", models.RoleUser)
	u2 := createTestUser(t, gdb, "bruno", models.RoleUser)

	rock := models.Category{Name: "Rock"}
	require.NoError(t, gdb.Create(&rock).Error)

	in := validInput("Crónica del festival")
	in.CategoryIDs = []uint{rock.ID}
	article, err := s.Create(u1, in)
	require.NoError(t, err)

	root, err := comments.AddComment(article.ID, u2, "raíz", nil)
	require.NoError(t, err)
	_, err = comments.AddComment(article.ID, u1, "respuesta", &root.ID)
	require.NoError(t, err)
	_, err = likes.ToggleCommentLike(u1.ID, root.ID)
	require.NoError(t, err)
	_, err = likes.ToggleArticleLike(u2.ID, article.ID)
	require.NoError(t, err)
	require.NoError(t, s.RecordView(u2.ID, article.ID, "10.0.0.7"))
	require.NoError(t, ratings.Rate(u2.ID, article.ID, 4))

	// Someone else's article cannot be deleted
	require.ErrorIs(t, s.Delete(article.ID, u2), ErrPermissionDenied)

	require.NoError(t, s.Delete(article.ID, u1))

	counts := map[string]interface{}{
		"comments":        &models.Comment{},
		"comment likes":   &models.CommentLike{},
		"article likes":   &models.ArticleLike{},
		"article views":   &models.ArticleView{},
		"article ratings": &models.ArticleRating{},
		"articles":        &models.Article{},
	}
	for name, model := range counts {
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%s should be gone", name)
	}

	var joinRows int64
	require.NoError(t, gdb.Table("article_categories").Count(&joinRows).Error)
	assert.Zero(t, joinRows)

	// The category itself survives
	var categoryCount int64
	require.NoError(t, gdb.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.Equal(t, int64(1), categoryCount)
}

func TestRecordViewDeduplicates(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	user := createTestUser(t, gdb, "ana", models.RoleUser)
	article := createTestArticle(t, gdb, user, "Discos del año")

	require.NoError(t, s.RecordView(user.ID, article.ID, "10.0.0.7"))
	require.NoError(t, s.RecordView(user.ID, article.ID, "10.0.0.7"))
	require.NoError(t, s.RecordView(user.ID, article.ID, "192.168.1.3"))

	count, err := s.ViewCount(article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListFillsCounters(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	comments := NewCommentService(gdb, nil)
	likes := NewLikeService(gdb)
	u1 := createTestUser(t, gdb, "ana", models.RoleUser)
	u2 := createTestUser(t, gdb, "bruno", models.RoleUser)

	noisy, err := s.Create(u1, validInput("Artículo comentado"))
	require.NoError(t, err)
	quiet, err := s.Create(u1, validInput("Artículo tranquilo"))
	require.NoError(t, err)

	root, err := comments.AddComment(noisy.ID, u2, "raíz", nil)
	require.NoError(t, err)
	_, err = comments.AddComment(noisy.ID, u1, "respuesta", &root.ID)
	require.NoError(t, err)
	_, err = likes.ToggleArticleLike(u2.ID, noisy.ID)
	require.NoError(t, err)

	articles, err := s.List()
	require.NoError(t, err)
	require.Len(t, articles, 2)

	byID := make(map[uint]models.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	assert.Equal(t, int64(2), byID[noisy.ID].CommentCount)
	assert.Equal(t, int64(1), byID[noisy.ID].LikeCount)
	assert.Zero(t, byID[quiet.ID].CommentCount)
	assert.Zero(t, byID[quiet.ID].LikeCount)
}

func TestListByUserAndCategory(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewArticleService(gdb, nil)
	u1 := createTestUser(t, gdb, "ana", models.RoleUser)
	u2 := createTestUser(t, gdb, "bruno", models.RoleUser)

	rock := models.Category{Name: "Rock"}
	require.NoError(t, gdb.Create(&rock).Error)

	in := validInput("Artículo de ana")
	in.CategoryIDs = []uint{rock.ID}
	mine, err := s.Create(u1, in)
	require.NoError(t, err)
	_, err = s.Create(u2, validInput("Artículo de bruno"))
	require.NoError(t, err)

	byUser, err := s.ListByUser(u1.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, mine.ID, byUser[0].ID)

	byCategory, err := s.ListByCategory(rock.ID)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, mine.ID, byCategory[0].ID)

	_, err = s.ListByCategory(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
