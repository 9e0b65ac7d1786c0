package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Glutix/blog-musical/internal/db"
	"github.com/Glutix/blog-musical/internal/models"
	"github.com/Glutix/blog-musical/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// setupTestDB opens a private in-memory database with the production schema.
// cache=shared keeps the database alive across the pool's connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func createTestArticle(t *testing.T, gdb *gorm.DB, author *models.User, title string) *models.Article {
	t.Helper()

	article := models.Article{
		Title:   title,
		Content: strings.Repeat("la ", 30),
		Slug:    utils.Slugify(title),
		UserID:  author.ID,
	}
	require.NoError(t, gdb.Create(&article).Error)
	return &article
}
