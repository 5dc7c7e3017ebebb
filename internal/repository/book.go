package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultSortColumn = "created_at"
	defaultPageSize   = 10
)

// sortColumns maps accepted sort keys (API and column spellings) to columns.
var sortColumns = map[string]string{
	"id":             "id",
	"title":          "title",
	"author":         "author",
	"genre":          "genre",
	"description":    "description",
	"publishedYear":  "published_year",
	"published_year": "published_year",
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"updatedAt":      "updated_at",
	"updated_at":     "updated_at",
}

type BookListParams struct {
	Page     int
	PageSize int
	Genre    string
	Author   string
	Sort     string
	Order    string
}

type BookListResult struct {
	Books []model.Book
	Total int64
}

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, params BookListParams) (BookListResult, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	Genres(ctx context.Context) ([]string, error)
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// ResolveSort returns the column and direction for the given sort key and
// order. Unknown keys fall back to created_at, anything but "asc" is
// descending.
func ResolveSort(sort, order string) (column string, desc bool) {
	column, ok := sortColumns[sort]
	if !ok {
		column = DefaultSortColumn
	}
	return column, strings.ToLower(order) != "asc"
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return translateError(r.db.WithContext(ctx).Create(book).Error)
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		First(&book, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) List(ctx context.Context, params BookListParams) (BookListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Scopes(filterBooks(params)).
		Count(&total).Error; err != nil {

		return BookListResult{}, err
	}

	column, desc := ResolveSort(params.Sort, params.Order)

	var books []model.Book
	if err := r.db.WithContext(ctx).
		Scopes(filterBooks(params)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error; err != nil {

		return BookListResult{}, err
	}

	return BookListResult{Books: books, Total: total}, nil
}

func filterBooks(params BookListParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Genre != "" {
			db = db.Where("genre = ?", params.Genre)
		}
		if params.Author != "" {
			db = db.Where("author = ?", params.Author)
		}
		return db
	}
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) error {
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":          book.Title,
			"author":         book.Author,
			"genre":          book.Genre,
			"description":    book.Description,
			"published_year": book.PublishedYear,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the book and its reviews in one transaction.
func (r *GormBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Book{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormBookRepository) Genres(ctx context.Context) ([]string, error) {
	genres := make([]string, 0)
	if err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error; err != nil {

		return nil, err
	}
	return genres, nil
}
