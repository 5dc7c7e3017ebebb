package service

import (
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/rating"
)

// BookView is a book together with its aggregate rating, computed at read
// time. Reviews is only populated by detail reads.
type BookView struct {
	Book    model.Book
	Rating  rating.Summary
	Reviews []model.Review
}

type BookPage struct {
	Items    []BookView
	Total    int64
	Page     int
	PageSize int
}

func (p BookPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
