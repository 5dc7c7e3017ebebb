package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookreviews/internal/service"
	"github.com/snnyvrz/bookreviews/internal/validation"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// RegisterRoutes mounts the book routes. Mutating routes get the extra
// middleware (rate limiting in production).
func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup, write ...gin.HandlerFunc) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/genres", h.ListGenres)
		books.GET("/:id", h.GetBookByID)
	}

	mutating := books.Group("", write...)
	{
		mutating.POST("", h.CreateBook)
		mutating.PUT("/:id", h.UpdateBook)
		mutating.PATCH("/:id", h.UpdateBook)
		mutating.DELETE("/:id", h.DeleteBook)
	}
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a new book with title, author, genre and optional description and published year
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest          true  "Book to create"
// @Success      201      {object}  Book
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      429      {object}  validation.ErrorResponse   "Too many requests"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.svc.CreateBook(c.Request.Context(), service.CreateBookInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBook(*view))
}

// ListBooks godoc
// @Summary      List books
// @Description  Filtered, sorted and paginated books, each with its average rating
// @Tags         books
// @Produce      json
// @Param        genre   query     string  false  "Exact genre"
// @Param        author  query     string  false  "Exact author"
// @Param        page    query     int     false  "Page number"     default(1) minimum(1)
// @Param        limit   query     int     false  "Items per page"  default(10) minimum(1) maximum(50)
// @Param        sort    query     string  false  "Sort field"      Enums(createdAt,updatedAt,title,author,genre,publishedYear) default(createdAt)
// @Param        order   query     string  false  "Sort direction"  Enums(asc,desc) default(desc)
// @Success      200     {object}  ListBooksResponse
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, err := h.svc.ListBooks(c.Request.Context(), service.ListBooksInput{
		Genre:    c.Query("genre"),
		Author:   c.Query("author"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "limit", service.DefaultPageSize),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
	})
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(page))
}

// ListGenres godoc
// @Summary      List genres
// @Description  Distinct genres of all stored books, sorted
// @Tags         books
// @Produce      json
// @Success      200  {object}  GenresResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/genres [get]
func (h *BookHandler) ListGenres(c *gin.Context) {
	genres, err := h.svc.ListGenres(c.Request.Context())
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenresResponse{Genres: genres})
}

// GetBookByID godoc
// @Summary      Get a book by ID
// @Description  A single book with its reviews and average rating
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book ID (UUID)"
// @Success      200  {object}  BookDetail
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	view, err := h.svc.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookDetail(*view))
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Update the supplied fields of a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Book ID (UUID)"
// @Param        payload  body      UpdateBookRequest   true  "Fields to update"
// @Success      200      {object}  BookDetail
// @Failure      400      {object}  validation.ErrorResponse   "Invalid payload"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [put]
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.svc.UpdateBook(c.Request.Context(), c.Param("id"), service.UpdateBookInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookDetail(*view))
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Delete a book and all of its reviews
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book ID (UUID)"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.svc.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Book deleted"})
}
