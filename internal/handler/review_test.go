package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/testutil"
)

func TestSubmitReview_RequiresToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	body := SubmitReviewRequest{Rating: 3, ReviewText: "fine"}

	w := env.do(t, http.MethodPost, "/api/reviews/"+book.ID.String(), body, "")
	expectError(t, w, http.StatusUnauthorized, "MISSING_TOKEN")

	w = env.do(t, http.MethodPost, "/api/reviews/"+book.ID.String(), body, "garbage")
	expectError(t, w, http.StatusUnauthorized, "INVALID_TOKEN")

	if n := countRows(t, db, &model.Review{}); n != 0 {
		t.Errorf("expected no review stored, got %d", n)
	}
}

func TestSubmitReview_Success(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	testutil.SeedReview(t, db, book, bob, 5, "classic")

	w := env.do(t, http.MethodPost, "/api/reviews/"+book.ID.String(),
		SubmitReviewRequest{Rating: 3, ReviewText: "slow start"}, env.tokenFor(t, alice))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp BookDetail
	decodeJSON(t, w, &resp)

	if resp.ReviewCount != 2 || resp.AvgRating != 4 {
		t.Errorf("expected 2 reviews averaging 4, got %d averaging %v", resp.ReviewCount, resp.AvgRating)
	}

	found := false
	for _, r := range resp.Reviews {
		if r.Reviewer.ID == alice.ID && r.Rating == 3 && r.ReviewText == "slow start" {
			found = true
		}
	}
	if !found {
		t.Errorf("submitted review missing from response: %+v", resp.Reviews)
	}

	w = env.do(t, http.MethodGet, "/api/books/"+book.ID.String(), nil, "")
	var detail BookDetail
	decodeJSON(t, w, &detail)
	if len(detail.Reviews) != 2 {
		t.Errorf("expected review to be visible on the next read, got %d reviews", len(detail.Reviews))
	}
}

func TestSubmitReview_SnakeCaseBody(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	alice := testutil.SeedUser(t, db, "alice")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})

	w := env.do(t, http.MethodPost, "/api/reviews/"+book.ID.String(),
		map[string]any{"rating": 3, "review_text": "spice everywhere"}, env.tokenFor(t, alice))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var raw struct {
		Reviews []map[string]any `json:"reviews"`
	}
	decodeJSON(t, w, &raw)

	if len(raw.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(raw.Reviews))
	}
	if got := raw.Reviews[0]["review_text"]; got != "spice everywhere" {
		t.Errorf("expected review_text %q, got %v", "spice everywhere", got)
	}
}

func TestSubmitReview_InvalidRating(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	alice := testutil.SeedUser(t, db, "alice")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	token := env.tokenFor(t, alice)

	for _, body := range []map[string]any{
		{"rating": 0, "review_text": "zero"},
		{"rating": 6, "review_text": "six"},
		{"rating": 3, "review_text": "   "},
		{"rating": 3},
	} {
		w := env.do(t, http.MethodPost, "/api/reviews/"+book.ID.String(), body, token)
		expectError(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	}

	if n := countRows(t, db, &model.Review{}); n != 0 {
		t.Errorf("expected no review stored, got %d", n)
	}
}

func TestSubmitReview_UnknownBook(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	alice := testutil.SeedUser(t, db, "alice")

	w := env.do(t, http.MethodPost, "/api/reviews/"+uuid.NewString(),
		SubmitReviewRequest{Rating: 3, ReviewText: "where is it"}, env.tokenFor(t, alice))
	expectError(t, w, http.StatusNotFound, "BOOK_NOT_FOUND")
}

func TestDeleteReview(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := setupTestRouter(t, db)

	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	book := testutil.SeedBook(t, db, testutil.BookSeed{Title: "Dune", Author: "Frank Herbert", Genre: "SF"})
	review := testutil.SeedReview(t, db, book, alice, 2, "nope")
	path := "/api/reviews/" + book.ID.String() + "/" + review.ID.String()

	w := env.do(t, http.MethodDelete, path, nil, "")
	expectError(t, w, http.StatusUnauthorized, "MISSING_TOKEN")

	w = env.do(t, http.MethodDelete, path, nil, env.tokenFor(t, bob))
	expectError(t, w, http.StatusForbidden, "NOT_REVIEW_AUTHOR")

	w = env.do(t, http.MethodDelete, path, nil, env.tokenFor(t, alice))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp BookDetail
	decodeJSON(t, w, &resp)
	if len(resp.Reviews) != 0 || resp.AvgRating != 0 {
		t.Errorf("expected no reviews left, got %+v", resp)
	}
}
