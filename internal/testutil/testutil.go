package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/auth"
	"github.com/snnyvrz/bookreviews/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory SQLite database with the schema
// migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewErrorDB returns a database without any tables, so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func SeedUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}

	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}

	return user
}

type BookSeed struct {
	Title         string
	Author        string
	Genre         string
	Description   string
	PublishedYear *int
	CreatedAt     time.Time
}

func SeedBook(t *testing.T, db *gorm.DB, seed BookSeed) model.Book {
	t.Helper()

	createdAt := seed.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	book := model.Book{
		ID:            uuid.New(),
		Title:         seed.Title,
		Author:        seed.Author,
		Genre:         seed.Genre,
		Description:   seed.Description,
		PublishedYear: seed.PublishedYear,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", seed.Title, err)
	}

	return book
}

func SeedReview(t *testing.T, db *gorm.DB, book model.Book, reviewer model.User, rating int, text string) model.Review {
	t.Helper()

	review := model.Review{
		BookID:     book.ID,
		ReviewerID: reviewer.ID,
		ReviewText: text,
		Rating:     rating,
	}

	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to seed review for %q: %v", book.Title, err)
	}

	return review
}

func IntPtr(v int) *int {
	return &v
}
