package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingAggregator(t *testing.T) {
	target := uuid.New()
	var asked uuid.UUID

	agg := NewRatingAggregator(&fakeReviewRepo{
		RatingStatsFn: func(ctx context.Context, bookID uuid.UUID) (repository.RatingStats, error) {
			asked = bookID
			return repository.RatingStats{Count: 4, Sum: 14}, nil
		},
	})

	summary, err := agg.Aggregate(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, target, asked)
	assert.EqualValues(t, 4, summary.Count)
	assert.Equal(t, 3.5, summary.Average)
}

func TestRatingAggregator_NoReviews(t *testing.T) {
	agg := NewRatingAggregator(&fakeReviewRepo{})

	summary, err := agg.Aggregate(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)
}

func TestRatingAggregator_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	agg := NewRatingAggregator(&fakeReviewRepo{
		RatingStatsFn: func(ctx context.Context, bookID uuid.UUID) (repository.RatingStats, error) {
			return repository.RatingStats{}, boom
		},
	})

	_, err := agg.Aggregate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}
