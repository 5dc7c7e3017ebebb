package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"github.com/snnyvrz/bookreviews/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookService(db *gorm.DB) *BookService {
	return NewBookService(
		repository.NewGormBookRepository(db),
		repository.NewGormReviewRepository(db),
	)
}

func requireAppError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "expected *apperror.Error, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
}

func TestListBooks_AttachesAverageRating(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	reader := testutil.SeedUser(t, db, "reader")
	dune := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF", CreatedAt: time.Now().Add(-time.Hour)})
	emma := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Emma", Author: "Jane Austen", Genre: "Classic"})
	testutil.SeedReview(t, db, dune, reader, 5, "great")
	testutil.SeedReview(t, db, dune, reader, 4, "good")
	testutil.SeedReview(t, db, dune, reader, 4, "good again")

	page, err := svc.ListBooks(context.Background(), ListBooksInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)

	assert.Equal(t, emma.ID, page.Items[0].Book.ID)
	assert.Zero(t, page.Items[0].Rating.Count)
	assert.Zero(t, page.Items[0].Rating.Average)
	assert.False(t, math.IsNaN(page.Items[0].Rating.Average))

	assert.Equal(t, dune.ID, page.Items[1].Book.ID)
	assert.EqualValues(t, 3, page.Items[1].Rating.Count)
	assert.Equal(t, 13.0/3.0, page.Items[1].Rating.Average)
}

func TestListBooks_GenreFilterAndPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	base := time.Now().Add(-48 * time.Hour)
	for i := 1; i <= 15; i++ {
		testutil.SeedBook(t, db, testutil.BookSeed{
			Title:     fmt.Sprintf("Mystery %02d", i),
			Author:    "Agatha Christie",
			Genre:     "Mystery",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})

	page, err := svc.ListBooks(context.Background(), ListBooksInput{
		Genre:    "Mystery",
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 15, page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 5)

	// newest first: page two holds the five oldest
	want := []string{"Mystery 05", "Mystery 04", "Mystery 03", "Mystery 02", "Mystery 01"}
	for i, item := range page.Items {
		assert.Equal(t, want[i], item.Book.Title)
		assert.Equal(t, "Mystery", item.Book.Genre)
	}
}

func TestListBooks_ClampsPageSize(t *testing.T) {
	var got repository.BookListParams
	repo := &fakeBookRepo{
		ListFn: func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
			got = params
			return repository.BookListResult{}, nil
		},
	}
	svc := NewBookService(repo, &fakeReviewRepo{})

	page, err := svc.ListBooks(context.Background(), ListBooksInput{Page: -3, PageSize: 500})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, MaxPageSize, got.PageSize)
	assert.Equal(t, MaxPageSize, page.PageSize)
	assert.NotNil(t, page.Items)
}

func TestListBooks_StoreFailure(t *testing.T) {
	svc := NewBookService(&fakeBookRepo{
		ListFn: func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
			return repository.BookListResult{}, errors.New("connection reset")
		},
	}, &fakeReviewRepo{})

	_, err := svc.ListBooks(context.Background(), ListBooksInput{})
	requireAppError(t, err, 500, "BOOK_LIST_FAILED")
}

func TestListBooks_AggregationFailure(t *testing.T) {
	books := &fakeBookRepo{
		ListFn: func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
			return repository.BookListResult{Books: []model.Book{{ID: uuid.New(), Title: "Dune"}}, Total: 1}, nil
		},
	}
	reviews := &fakeReviewRepo{
		RatingStatsFn: func(ctx context.Context, bookID uuid.UUID) (repository.RatingStats, error) {
			return repository.RatingStats{}, errors.New("timeout")
		},
	}

	_, err := NewBookService(books, reviews).ListBooks(context.Background(), ListBooksInput{})
	requireAppError(t, err, 500, "BOOK_LIST_FAILED")
}

func TestGetBook_WithReviews(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	testutil.SeedReview(t, db, book, alice, 5, "great")
	testutil.SeedReview(t, db, book, bob, 2, "slow")

	view, err := svc.GetBook(context.Background(), book.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Dune", view.Book.Title)
	assert.Len(t, view.Reviews, 2)
	assert.EqualValues(t, 2, view.Rating.Count)
	assert.Equal(t, 3.5, view.Rating.Average)

	usernames := []string{view.Reviews[0].Reviewer.Username, view.Reviews[1].Reviewer.Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
}

func TestGetBook_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	_, err := svc.GetBook(context.Background(), uuid.NewString())
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")
}

func TestGetBook_MalformedIDIsNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	_, err := svc.GetBook(context.Background(), "not-a-uuid")
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")
}

func TestCreateBook(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	view, err := svc.CreateBook(context.Background(), CreateBookInput{
		Title:         "  Dune ",
		Author:        "Frank Herbert",
		Genre:         "SF",
		PublishedYear: testutil.IntPtr(1965),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, view.Book.ID)
	assert.Equal(t, "Dune", view.Book.Title)
	assert.Zero(t, view.Rating.Average)
	assert.Empty(t, view.Reviews)

	var stored model.Book
	require.NoError(t, db.First(&stored, "id = ?", view.Book.ID).Error)
	assert.Equal(t, "SF", stored.Genre)
}

func TestCreateBook_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	_, err := svc.CreateBook(context.Background(), CreateBookInput{
		Title:         " ",
		Author:        "Frank Herbert",
		PublishedYear: testutil.IntPtr(time.Now().Year() + 5),
	})
	requireAppError(t, err, 400, "VALIDATION_FAILED")

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	fields := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "genre", "publishedYear"}, fields)

	var count int64
	require.NoError(t, db.Model(&model.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateBook_PartialFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: testutil.IntPtr(1965)})

	genre := "Science Fiction"
	view, err := svc.UpdateBook(context.Background(), book.ID.String(), UpdateBookInput{Genre: &genre})
	require.NoError(t, err)

	assert.Equal(t, "Science Fiction", view.Book.Genre)
	assert.Equal(t, "Dune", view.Book.Title)
	require.NotNil(t, view.Book.PublishedYear)
	assert.Equal(t, 1965, *view.Book.PublishedYear)
}

func TestUpdateBook_ZeroYearClears(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: testutil.IntPtr(1965)})

	view, err := svc.UpdateBook(context.Background(), book.ID.String(), UpdateBookInput{PublishedYear: testutil.IntPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, view.Book.PublishedYear)
}

func TestUpdateBook_Errors(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)
	ctx := context.Background()

	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	empty := ""

	_, err := svc.UpdateBook(ctx, uuid.NewString(), UpdateBookInput{Title: &empty})
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")

	_, err = svc.UpdateBook(ctx, "garbage", UpdateBookInput{Title: &empty})
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")

	_, err = svc.UpdateBook(ctx, book.ID.String(), UpdateBookInput{})
	requireAppError(t, err, 400, "NO_FIELDS_TO_UPDATE")

	_, err = svc.UpdateBook(ctx, book.ID.String(), UpdateBookInput{Title: &empty})
	requireAppError(t, err, 400, "VALIDATION_FAILED")
}

func TestDeleteBook(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)
	ctx := context.Background()

	reader := testutil.SeedUser(t, db, "reader")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	testutil.SeedReview(t, db, book, reader, 4, "good")

	require.NoError(t, svc.DeleteBook(ctx, book.ID.String()))

	_, err := svc.GetBook(ctx, book.ID.String())
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")

	var reviews int64
	require.NoError(t, db.Model(&model.Review{}).Where("book_id = ?", book.ID).Count(&reviews).Error)
	assert.Zero(t, reviews)

	err = svc.DeleteBook(ctx, book.ID.String())
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")

	err = svc.DeleteBook(ctx, "nope")
	requireAppError(t, err, 404, "BOOK_NOT_FOUND")
}

func TestListGenres(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newBookService(db)

	testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	testutil.SeedBook(t, db, testutil.BookSeed{Title: "Emma", Author: "Jane Austen", Genre: "Classic"})
	testutil.SeedBook(t, db, testutil.BookSeed{Title: "Hyperion", Author: "Dan Simmons", Genre: "SF"})

	genres, err := svc.ListGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic", "SF"}, genres)
}
