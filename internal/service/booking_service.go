package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/platform/storage"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/pkg/events"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

type BookingService interface {
	// CreateBooking validates the form against the tour and persists one
	// booking in the given initial status.
	CreateBooking(ctx context.Context, actor *domain.Actor, tourID int64, form domain.BookingForm, initial domain.BookingStatus, idempotencyKey string) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, actor *domain.Actor) ([]domain.BookingView, error)
	CompleteBooking(ctx context.Context, actor *domain.Actor, bookingID int64) (*domain.Booking, error)
	// CompleteAllForTour returns how many bookings changed.
	CompleteAllForTour(ctx context.Context, actor *domain.Actor, tourID int64) (int, error)
}

type bookingService struct {
	bookingRepo     postgres.BookingRepo
	idempotencyRepo postgres.IdempotencyRepo
	tourRepo        postgres.ToursRepo
	images          *storage.Images
	eventBus        events.Publisher
}

func NewBookingService(
	bookingRepo postgres.BookingRepo,
	idempotencyRepo postgres.IdempotencyRepo,
	tourRepo postgres.ToursRepo,
	images *storage.Images,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		idempotencyRepo: idempotencyRepo,
		tourRepo:        tourRepo,
		images:          images,
		eventBus:        eventBus,
	}
}

func (s *bookingService) CreateBooking(
	ctx context.Context,
	actor *domain.Actor,
	tourID int64,
	form domain.BookingForm,
	initial domain.BookingStatus,
	idempotencyKey string,
) (*domain.Booking, error) {
	if actor == nil {
		return nil, domain.ErrLoginToBook
	}
	if !domain.IsInitial(initial) {
		return nil, fmt.Errorf("invalid initial booking status %q", initial)
	}

	form.Normalize()
	if err := domain.Validate(&form); err != nil {
		return nil, err
	}

	tour, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour == nil {
		return nil, domain.ErrNotFound
	}
	if form.NumberOfPeople > tour.MaxPeople {
		return nil, &domain.CapacityError{MaxPeople: tour.MaxPeople}
	}

	scopedKey := ""
	if idempotencyKey != "" {
		// a key replays only the same user, tour and entry path
		scopedKey = fmt.Sprintf("%s:%d:%s:%s", actor.ID, tour.ID, initial, idempotencyKey)
		existingID, reserved, err := s.idempotencyRepo.Reserve(ctx, scopedKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !reserved {
			if existingID == 0 {
				return nil, domain.ErrBookingInFlight
			}
			existing, err := s.bookingRepo.FindByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("failed to load booking: %w", err)
			}
			if existing == nil {
				return nil, domain.ErrBookingInFlight
			}
			return existing, nil
		}
	}

	booking, err := s.bookingRepo.Create(ctx, &domain.Booking{
		TourID:         tour.ID,
		UserID:         actor.ID,
		LeaderName:     form.LeaderName,
		Email:          form.Email,
		Phone:          form.Phone,
		NumberOfPeople: form.NumberOfPeople,
		Status:         initial,
	})
	if err != nil {
		if scopedKey != "" {
			if relErr := s.idempotencyRepo.Release(ctx, scopedKey); relErr != nil {
				logger.ErrorContext(ctx, "Failed to release idempotency key", "error", relErr)
			}
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if scopedKey != "" {
		if err := s.idempotencyRepo.Complete(ctx, scopedKey, booking.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to store idempotency record", "error", err, "booking_id", booking.ID)
		}
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:      booking.ID,
		TourID:         booking.TourID,
		UserID:         booking.UserID.String(),
		Status:         string(booking.Status),
		NumberOfPeople: booking.NumberOfPeople,
		CreatedAt:      booking.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor *domain.Actor) ([]domain.BookingView, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	bookings, err := s.bookingRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	views := make([]domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		s.images.DecorateSnapshot(b.Tour)
		views = append(views, domain.NewBookingView(b))
	}
	return views, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, actor *domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := ownedTour(ctx, s.tourRepo, actor, booking.TourID); err != nil {
		return nil, err
	}
	if !domain.CanTransition(booking.Status, domain.BookingCompleted) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.bookingRepo.Complete(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete booking: %w", err)
	}
	if updated == nil {
		// completed concurrently
		return nil, domain.ErrInvalidTransition
	}

	s.publishCompleted(ctx, actor, updated.TourID, []int64{updated.ID})
	return updated, nil
}

func (s *bookingService) CompleteAllForTour(ctx context.Context, actor *domain.Actor, tourID int64) (int, error) {
	if _, err := ownedTour(ctx, s.tourRepo, actor, tourID); err != nil {
		return 0, err
	}

	bookings, err := s.bookingRepo.ListByTours(ctx, []int64{tourID})
	if err != nil {
		return 0, fmt.Errorf("failed to list tour bookings: %w", err)
	}
	if !domain.CanCompleteAll(bookings) {
		return 0, domain.ErrNothingToComplete
	}

	ids, err := s.bookingRepo.CompleteAllForTour(ctx, tourID)
	if err != nil {
		return 0, fmt.Errorf("failed to complete tour bookings: %w", err)
	}
	if len(ids) > 0 {
		s.publishCompleted(ctx, actor, tourID, ids)
	}
	return len(ids), nil
}

func (s *bookingService) publishCompleted(ctx context.Context, actor *domain.Actor, tourID int64, ids []int64) {
	if err := s.eventBus.Publish(ctx, events.BookingCompleted, events.BookingCompletedEvent{
		TourID:      tourID,
		BookingIDs:  ids,
		CompletedBy: actor.ID.String(),
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking completed event", "error", err, "tour_id", tourID)
	}
}
