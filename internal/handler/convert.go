package handler

import (
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/service"
)

func toBook(v service.BookView) Book {
	b := v.Book
	return Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		AvgRating:     v.Rating.Average,
		ReviewCount:   v.Rating.Count,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookDetail(v service.BookView) BookDetail {
	reviews := make([]Review, 0, len(v.Reviews))
	for _, r := range v.Reviews {
		reviews = append(reviews, toReview(r))
	}

	return BookDetail{
		Book:    toBook(v),
		Reviews: reviews,
	}
}

func toReview(r model.Review) Review {
	return Review{
		ID:     r.ID,
		BookID: r.BookID,
		Reviewer: ReviewerSummary{
			ID:       r.ReviewerID,
			Username: r.Reviewer.Username,
		},
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt,
	}
}

func toListBooksResponse(p *service.BookPage) ListBooksResponse {
	books := make([]Book, 0, len(p.Items))
	for _, item := range p.Items {
		books = append(books, toBook(item))
	}

	return ListBooksResponse{
		Books:      books,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.PageSize,
		TotalPages: p.TotalPages(),
	}
}

func toUser(u model.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toSessionResponse(s *service.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      toUser(s.User),
	}
}
