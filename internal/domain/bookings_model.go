package domain

import (
	"strings"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/utils"
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "booking confirmed"
	BookingCompleted BookingStatus = "tour completed"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// IsInitial reports whether a booking may be created in status s.
func IsInitial(s BookingStatus) bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanTransition allows exactly pending → tour completed and
// booking confirmed → tour completed. tour completed is terminal.
func CanTransition(from, to BookingStatus) bool {
	return to == BookingCompleted && IsInitial(from)
}

// BookingForm is what a signed-in traveller submits for a tour.
type BookingForm struct {
	LeaderName     string `json:"leader_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	NumberOfPeople int    `json:"number_of_people" validate:"gte=1"`
}

// Normalize trims the contact fields so whitespace-only values count as empty.
func (f *BookingForm) Normalize() {
	f.LeaderName = strings.TrimSpace(f.LeaderName)
	f.Email = utils.NormalizeEmail(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
}

// TourSnapshot is the tour data embedded in a booking read.
type TourSnapshot struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	Price           Money  `json:"price"`
	DestinationName string `json:"destination_name,omitempty"`
	Image           string `json:"image,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
}

type Booking struct {
	ID             int64         `json:"id"`
	TourID         int64         `json:"tour_id"`
	UserID         uuid.UUID     `json:"user_id"`
	LeaderName     string        `json:"leader_name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	NumberOfPeople int           `json:"number_of_people"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Tour      *TourSnapshot `json:"tour,omitempty"`
	HasReview bool          `json:"has_review"`
}

// CanReview is true once the tour is completed and no review exists yet.
func (b *Booking) CanReview() bool {
	return b.Status == BookingCompleted && !b.HasReview
}

// BookingView is a booking as the owner sees it in their profile.
type BookingView struct {
	Booking
	CanReview bool `json:"can_review"`
}

func NewBookingView(b Booking) BookingView {
	return BookingView{Booking: b, CanReview: b.CanReview()}
}
