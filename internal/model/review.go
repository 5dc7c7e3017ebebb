package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is immutable once stored; only its author may delete it.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID"`
	ReviewText string    `gorm:"not null"`
	Rating     int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	CreatedAt  time.Time `gorm:"index"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
