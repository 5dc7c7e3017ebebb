package handler

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Author        string `json:"author" binding:"required,max=255"`
	Genre         string `json:"genre" binding:"required,max=100"`
	Description   string `json:"description" binding:"max=2000"`
	PublishedYear *int   `json:"publishedYear" binding:"omitempty,min=1" example:"1965"`
}

// UpdateBookRequest is used by both PUT and PATCH; omitted fields are left
// unchanged and publishedYear 0 clears the year.
type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=255"`
	Author        *string `json:"author" binding:"omitempty,max=255"`
	Genre         *string `json:"genre" binding:"omitempty,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	PublishedYear *int    `json:"publishedYear" binding:"omitempty,min=0" example:"1965"`
}

type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	AvgRating     float64   `json:"avgRating" example:"4.5"`
	ReviewCount   int64     `json:"reviewCount" example:"2"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookDetail is a book with its reviews, newest first.
type BookDetail struct {
	Book
	Reviews []Review `json:"reviews"`
}

type ListBooksResponse struct {
	Books      []Book `json:"books"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

type GenresResponse struct {
	Genres []string `json:"genres"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
