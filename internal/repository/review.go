package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingStats is the raw material for an average: callers divide.
type RatingStats struct {
	Count int64
	Sum   int64
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)
	RatingStats(ctx context.Context, bookID uuid.UUID) (RatingStats, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error)
}

func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		First(&review, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &review, nil
}

// ListByBook returns the book's reviews newest first, with reviewers loaded.
func (r *GormReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	if err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Order("id").
		Find(&reviews).Error; err != nil {

		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) RatingStats(ctx context.Context, bookID uuid.UUID) (RatingStats, error) {
	var stats RatingStats
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("book_id = ?", bookID).
		Scan(&stats).Error; err != nil {

		return RatingStats{}, err
	}
	return stats, nil
}

func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
