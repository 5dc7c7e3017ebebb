package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"gorm.io/gorm"
)

type fakeBookRepo struct {
	CreateFn   func(ctx context.Context, b *model.Book) error
	FindByIDFn func(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ListFn     func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error)
	UpdateFn   func(ctx context.Context, b *model.Book) error
	DeleteFn   func(ctx context.Context, id uuid.UUID) error
	GenresFn   func(ctx context.Context) ([]string, error)
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookRepo) List(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, params)
	}
	return repository.BookListResult{}, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeBookRepo) Genres(ctx context.Context) ([]string, error) {
	if f.GenresFn != nil {
		return f.GenresFn(ctx)
	}
	return []string{}, nil
}

type fakeReviewRepo struct {
	CreateFn      func(ctx context.Context, r *model.Review) error
	FindByIDFn    func(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByBookFn  func(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)
	RatingStatsFn func(ctx context.Context, bookID uuid.UUID) (repository.RatingStats, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	created int
}

func (f *fakeReviewRepo) Create(ctx context.Context, r *model.Review) error {
	f.created++
	if f.CreateFn != nil {
		return f.CreateFn(ctx, r)
	}
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	if f.ListByBookFn != nil {
		return f.ListByBookFn(ctx, bookID)
	}
	return []model.Review{}, nil
}

func (f *fakeReviewRepo) RatingStats(ctx context.Context, bookID uuid.UUID) (repository.RatingStats, error) {
	if f.RatingStatsFn != nil {
		return f.RatingStatsFn(ctx, bookID)
	}
	return repository.RatingStats{}, nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}
