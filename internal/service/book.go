package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/rating"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

type ListBooksInput struct {
	Genre    string
	Author   string
	Page     int
	PageSize int
	Sort     string
	Order    string
}

type CreateBookInput struct {
	Title         string
	Author        string
	Genre         string
	Description   string
	PublishedYear *int
}

// UpdateBookInput carries only the fields to change.
type UpdateBookInput struct {
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	PublishedYear *int
}

func (in UpdateBookInput) empty() bool {
	return in.Title == nil && in.Author == nil && in.Genre == nil &&
		in.Description == nil && in.PublishedYear == nil
}

type BookService struct {
	books      repository.BookRepository
	reviews    repository.ReviewRepository
	aggregator *RatingAggregator
	now        func() time.Time
}

func NewBookService(books repository.BookRepository, reviews repository.ReviewRepository) *BookService {
	return &BookService{
		books:      books,
		reviews:    reviews,
		aggregator: NewRatingAggregator(reviews),
		now:        time.Now,
	}
}

// ListBooks returns one page of books matching the filter, each with its
// aggregate rating. Ratings are fetched with one query per book.
func (s *BookService) ListBooks(ctx context.Context, in ListBooksInput) (*BookPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	result, err := s.books.List(ctx, repository.BookListParams{
		Page:     page,
		PageSize: pageSize,
		Genre:    in.Genre,
		Author:   in.Author,
		Sort:     in.Sort,
		Order:    in.Order,
	})
	if err != nil {
		return nil, apperror.Internal("BOOK_LIST_FAILED", "failed to fetch books", err)
	}

	items := make([]BookView, 0, len(result.Books))
	for _, b := range result.Books {
		summary, err := s.aggregator.Aggregate(ctx, b.ID)
		if err != nil {
			return nil, apperror.Internal("BOOK_LIST_FAILED", "failed to fetch books", err)
		}
		items = append(items, BookView{Book: b, Rating: summary})
	}

	return &BookPage{
		Items:    items,
		Total:    result.Total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetBook returns the book with all of its reviews and an average computed
// from exactly those reviews.
func (s *BookService) GetBook(ctx context.Context, id string) (*BookView, error) {
	bookID, err := parseBookID(id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, bookID)
}

func (s *BookService) detail(ctx context.Context, bookID uuid.UUID) (*BookView, error) {
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, apperror.Internal("REVIEW_FETCH_FAILED", "failed to fetch reviews", err)
	}

	return &BookView{
		Book:    *book,
		Rating:  rating.Summarize(reviews),
		Reviews: reviews,
	}, nil
}

func (s *BookService) CreateBook(ctx context.Context, in CreateBookInput) (*BookView, error) {
	book := model.Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Genre:         strings.TrimSpace(in.Genre),
		Description:   strings.TrimSpace(in.Description),
		PublishedYear: in.PublishedYear,
	}

	if err := s.validateBook(book); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, &book); err != nil {
		return nil, apperror.Internal("BOOK_CREATE_FAILED", "failed to create book", err)
	}

	created, err := s.findBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	return &BookView{Book: *created, Reviews: []model.Review{}}, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id string, in UpdateBookInput) (*BookView, error) {
	bookID, err := parseBookID(id)
	if err != nil {
		return nil, err
	}

	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if in.empty() {
		return nil, apperror.Validation("NO_FIELDS_TO_UPDATE", "at least one field must be provided to update")
	}

	if in.Title != nil {
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.Genre != nil {
		book.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.Description != nil {
		book.Description = strings.TrimSpace(*in.Description)
	}
	if in.PublishedYear != nil {
		if *in.PublishedYear == 0 {
			book.PublishedYear = nil
		} else {
			year := *in.PublishedYear
			book.PublishedYear = &year
		}
	}

	if err := s.validateBook(*book); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookNotFound()
		}
		return nil, apperror.Internal("BOOK_UPDATE_FAILED", "failed to update book", err)
	}

	return s.detail(ctx, bookID)
}

// DeleteBook removes the book together with all of its reviews.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	bookID, err := parseBookID(id)
	if err != nil {
		return err
	}

	if err := s.books.Delete(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bookNotFound()
		}
		return apperror.Internal("BOOK_DELETE_FAILED", "failed to delete book", err)
	}
	return nil
}

func (s *BookService) ListGenres(ctx context.Context) ([]string, error) {
	genres, err := s.books.Genres(ctx)
	if err != nil {
		return nil, apperror.Internal("GENRE_LIST_FAILED", "failed to fetch genres", err)
	}
	return genres, nil
}

func (s *BookService) findBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookNotFound()
		}
		return nil, apperror.Internal("BOOK_FETCH_FAILED", "failed to fetch book", err)
	}
	return book, nil
}

func (s *BookService) validateBook(b model.Book) error {
	var fields []apperror.FieldError

	required := []struct{ name, value string }{
		{"title", b.Title},
		{"author", b.Author},
		{"genre", b.Genre},
	}
	for _, f := range required {
		if f.value == "" {
			fields = append(fields, apperror.FieldError{
				Field:   f.name,
				Rule:    "required",
				Message: f.name + " is required",
			})
		}
	}

	if b.PublishedYear != nil {
		maxYear := s.now().Year() + 1
		if y := *b.PublishedYear; y < 1 || y > maxYear {
			fields = append(fields, apperror.FieldError{
				Field:   "publishedYear",
				Rule:    "range",
				Message: "publishedYear must be a plausible year",
			})
		}
	}

	if len(fields) > 0 {
		return apperror.Validation("VALIDATION_FAILED", "validation failed", fields...)
	}
	return nil
}

// parseBookID treats a malformed id the same as an unknown one.
func parseBookID(id string) (uuid.UUID, error) {
	bookID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, bookNotFound()
	}
	return bookID, nil
}

func bookNotFound() *apperror.Error {
	return apperror.NotFound("BOOK_NOT_FOUND", "book not found")
}
