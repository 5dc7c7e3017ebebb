package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/rating"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"gorm.io/gorm"
)

var reviewsSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookreviews_reviews_submitted_total",
		Help: "Reviews stored, by rating",
	},
	[]string{"rating"},
)

type SubmitReviewInput struct {
	BookID     string
	ReviewerID uuid.UUID
	Rating     int
	Text       string
}

type ReviewService struct {
	books   *BookService
	reviews repository.ReviewRepository
}

func NewReviewService(books *BookService, reviews repository.ReviewRepository) *ReviewService {
	return &ReviewService{
		books:   books,
		reviews: reviews,
	}
}

// SubmitReview stores one review and returns the book's refreshed detail
// view, so the caller sees the new average without another request.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*BookView, error) {
	bookID, err := parseBookID(in.BookID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if err := validateReview(in.Rating, text); err != nil {
		return nil, err
	}

	if _, err := s.books.findBook(ctx, bookID); err != nil {
		return nil, err
	}

	review := model.Review{
		BookID:     bookID,
		ReviewerID: in.ReviewerID,
		ReviewText: text,
		Rating:     in.Rating,
	}

	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, bookNotFound()
		}
		return nil, apperror.Internal("REVIEW_CREATE_FAILED", "failed to create review", err)
	}

	reviewsSubmitted.WithLabelValues(strconv.Itoa(in.Rating)).Inc()

	return s.books.detail(ctx, bookID)
}

// DeleteReview removes a review on behalf of its author.
func (s *ReviewService) DeleteReview(ctx context.Context, bookIDParam, reviewIDParam string, callerID uuid.UUID) (*BookView, error) {
	bookID, err := parseBookID(bookIDParam)
	if err != nil {
		return nil, err
	}

	reviewID, err := uuid.Parse(reviewIDParam)
	if err != nil {
		return nil, reviewNotFound()
	}

	if _, err := s.books.findBook(ctx, bookID); err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reviewNotFound()
		}
		return nil, apperror.Internal("REVIEW_FETCH_FAILED", "failed to fetch review", err)
	}

	if review.BookID != bookID {
		return nil, reviewNotFound()
	}

	if review.ReviewerID != callerID {
		return nil, apperror.Forbidden("NOT_REVIEW_AUTHOR", "only the author can delete this review")
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reviewNotFound()
		}
		return nil, apperror.Internal("REVIEW_DELETE_FAILED", "failed to delete review", err)
	}

	return s.books.detail(ctx, bookID)
}

func validateReview(value int, text string) error {
	var fields []apperror.FieldError

	if !rating.Valid(value) {
		fields = append(fields, apperror.FieldError{
			Field:   "rating",
			Rule:    "range",
			Message: "rating must be between 1 and 5",
		})
	}
	if text == "" {
		fields = append(fields, apperror.FieldError{
			Field:   "review_text",
			Rule:    "required",
			Message: "review_text is required",
		})
	}

	if len(fields) > 0 {
		return apperror.Validation("VALIDATION_FAILED", "validation failed", fields...)
	}
	return nil
}

func reviewNotFound() *apperror.Error {
	return apperror.NotFound("REVIEW_NOT_FOUND", "review not found")
}
