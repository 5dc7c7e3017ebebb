package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/rating"
	"github.com/snnyvrz/bookreviews/internal/repository"
)

type RatingAggregator struct {
	reviews repository.ReviewRepository
}

func NewRatingAggregator(reviews repository.ReviewRepository) *RatingAggregator {
	return &RatingAggregator{reviews: reviews}
}

// Aggregate returns the review count and mean rating of one book.
func (a *RatingAggregator) Aggregate(ctx context.Context, bookID uuid.UUID) (rating.Summary, error) {
	stats, err := a.reviews.RatingStats(ctx, bookID)
	if err != nil {
		return rating.Summary{}, err
	}
	return rating.FromTotals(stats.Count, stats.Sum), nil
}
