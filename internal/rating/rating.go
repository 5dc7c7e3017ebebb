// Package rating derives a book's aggregate rating. Nothing here is stored:
// every read recomputes from the reviews that exist at that moment.
package rating

import "github.com/snnyvrz/bookreviews/internal/model"

type Summary struct {
	Count   int64
	Average float64
}

// FromTotals returns the mean of count ratings adding up to sum; zero
// reviews give an average of 0.
func FromTotals(count, sum int64) Summary {
	if count <= 0 {
		return Summary{}
	}
	return Summary{
		Count:   count,
		Average: float64(sum) / float64(count),
	}
}

func Summarize(reviews []model.Review) Summary {
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	return FromTotals(int64(len(reviews)), sum)
}

// Valid reports whether v is an acceptable review rating.
func Valid(v int) bool {
	return v >= model.MinRating && v <= model.MaxRating
}
