package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/pkg/events"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

type ReviewService interface {
	// SubmitReview attaches the single review of a completed booking owned by
	// actor.
	SubmitReview(ctx context.Context, actor *domain.Actor, bookingID int64, in domain.ReviewInput) (*domain.Review, error)
}

type reviewService struct {
	bookings postgres.BookingRepo
	reviews  postgres.ReviewsRepo
	eventBus events.Publisher
}

func NewReviewService(bookings postgres.BookingRepo, reviews postgres.ReviewsRepo, eventBus events.Publisher) ReviewService {
	return &reviewService{bookings: bookings, reviews: reviews, eventBus: eventBus}
}

func (s *reviewService) SubmitReview(ctx context.Context, actor *domain.Actor, bookingID int64, in domain.ReviewInput) (*domain.Review, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	in.Normalize()
	if err := domain.Validate(&in); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if booking.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingCompleted {
		return nil, domain.ErrReviewNotAllowed
	}
	if booking.HasReview {
		return nil, domain.ErrReviewExists
	}

	review, err := s.reviews.Create(ctx, &domain.Review{
		TourID:    booking.TourID,
		BookingID: booking.ID,
		UserID:    actor.ID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.ReviewSubmitted, events.ReviewSubmittedEvent{
		ReviewID:  review.ID,
		BookingID: review.BookingID,
		TourID:    review.TourID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish review submitted event", "error", err, "booking_id", bookingID)
	}
	return review, nil
}
