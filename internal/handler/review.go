package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookreviews/internal/middleware"
	"github.com/snnyvrz/bookreviews/internal/service"
	"github.com/snnyvrz/bookreviews/internal/validation"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts the review routes behind the given middleware, which
// must include authentication.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, guard ...gin.HandlerFunc) {
	reviews := r.Group("/reviews", guard...)
	{
		reviews.POST("/:bookId", h.SubmitReview)
		reviews.DELETE("/:bookId/:reviewId", h.DeleteReview)
	}
}

// SubmitReview godoc
// @Summary      Review a book
// @Description  Add a rating (1-5) and text to a book. Returns the book with all reviews and the new average.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId   path      string               true  "Book ID (UUID)"
// @Param        payload  body      SubmitReviewRequest  true  "Review"
// @Success      201      {object}  BookDetail
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Missing or invalid token"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reviews/{bookId} [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authentication required")
		return
	}

	var req SubmitReviewRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.svc.SubmitReview(c.Request.Context(), service.SubmitReviewInput{
		BookID:     c.Param("bookId"),
		ReviewerID: userID,
		Rating:     req.Rating,
		Text:       req.ReviewText,
	})
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookDetail(*view))
}

// DeleteReview godoc
// @Summary      Delete a review
// @Description  Delete one of your own reviews. Returns the book with the remaining reviews.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        bookId    path      string  true  "Book ID (UUID)"
// @Param        reviewId  path      string  true  "Review ID (UUID)"
// @Success      200       {object}  BookDetail
// @Failure      401       {object}  validation.ErrorResponse   "Missing or invalid token"
// @Failure      403       {object}  validation.ErrorResponse   "Not the review author"
// @Failure      404       {object}  validation.ErrorResponse   "Book or review not found"
// @Failure      500       {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reviews/{bookId}/{reviewId} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authentication required")
		return
	}

	view, err := h.svc.DeleteReview(c.Request.Context(), c.Param("bookId"), c.Param("reviewId"), userID)
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookDetail(*view))
}
