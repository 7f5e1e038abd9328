package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        int64     `json:"id"`
	TourID    int64     `json:"tour_id"`
	BookingID int64     `json:"booking_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	TourName     string `json:"tour_name,omitempty"`
	ReviewerName string `json:"reviewer_name,omitempty"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

func (in *ReviewInput) Normalize() {
	in.Comment = strings.TrimSpace(in.Comment)
}
