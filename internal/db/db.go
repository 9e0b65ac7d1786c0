package db

import (
	"log"
	"os"

	"github.com/Glutix/blog-musical/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=blog_musical port=5432 sslmode=disable"
	}

	var err error
	// TranslateError lets callers match gorm.ErrDuplicatedKey on unique
	// constraint violations (like toggles depend on this).
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial categories
	seedCategories(DB)
}

// Migrate creates or updates the schema for every record type. Exposed so
// tests can prepare their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Article{},
		&models.Comment{},
		&models.ArticleLike{},
		&models.CommentLike{},
		&models.ArticleView{},
		&models.ArticleRating{},
	)
}

func seedCategories(db *gorm.DB) {
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Rock", Description: "Classic and modern rock"},
		{Name: "Pop", Description: "Charts, releases and pop culture"},
		{Name: "Jazz", Description: "Standards, improvisation and fusion"},
		{Name: "Clásica", Description: "Orchestral and chamber music"},
		{Name: "Indie", Description: "Independent artists and scenes"},
	}

	for _, category := range categories {
		if err := db.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}
