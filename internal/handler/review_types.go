package handler

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	Rating     int    `json:"rating" binding:"required" example:"4"`
	ReviewText string `json:"review_text" binding:"required,max=5000"`
}

type ReviewerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type Review struct {
	ID         uuid.UUID       `json:"id"`
	BookID     uuid.UUID       `json:"bookId"`
	Reviewer   ReviewerSummary `json:"reviewer"`
	Rating     int             `json:"rating"`
	ReviewText string          `json:"review_text"`
	CreatedAt  time.Time       `json:"createdAt"`
}
