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

type AdminService interface {
	Dashboard(ctx context.Context, actor *domain.Actor) (*domain.Dashboard, error)
	CreateTour(ctx context.Context, actor *domain.Actor, in domain.TourInput) (*domain.Tour, error)
	UpdateTour(ctx context.Context, actor *domain.Actor, id int64, patch domain.TourPatch) (*domain.Tour, error)
	DeleteTour(ctx context.Context, actor *domain.Actor, id int64) error
	ListReviews(ctx context.Context, actor *domain.Actor) ([]domain.Review, error)
}

type adminService struct {
	profiles     postgres.ProfilesRepo
	tours        postgres.ToursRepo
	destinations postgres.DestinationsRepo
	bookings     postgres.BookingRepo
	reviews      postgres.ReviewsRepo
	catalog      CatalogService
	images       *storage.Images
	eventBus     events.Publisher
	now          func() time.Time
}

func NewAdminService(
	profiles postgres.ProfilesRepo,
	tours postgres.ToursRepo,
	destinations postgres.DestinationsRepo,
	bookings postgres.BookingRepo,
	reviews postgres.ReviewsRepo,
	catalog CatalogService,
	images *storage.Images,
	eventBus events.Publisher,
) AdminService {
	return &adminService{
		profiles:     profiles,
		tours:        tours,
		destinations: destinations,
		bookings:     bookings,
		reviews:      reviews,
		catalog:      catalog,
		images:       images,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

func requireAdmin(actor *domain.Actor) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return domain.ErrNotAdmin
	}
	return nil
}

func (s *adminService) Dashboard(ctx context.Context, actor *domain.Actor) (*domain.Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	tours, err := s.tours.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin tours: %w", err)
	}
	ids := make([]int64, 0, len(tours))
	for i := range tours {
		s.images.DecorateTour(&tours[i])
		ids = append(ids, tours[i].ID)
	}

	bookings, err := s.bookings.ListByTours(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin bookings: %w", err)
	}
	for i := range bookings {
		s.images.DecorateSnapshot(bookings[i].Tour)
	}

	return &domain.Dashboard{
		Profile:  profile,
		Tours:    tours,
		Bookings: bookings,
		Stats:    domain.ComputeStats(tours, bookings),
		Groups:   domain.GroupBookingsByTour(tours, bookings),
	}, nil
}

func (s *adminService) CreateTour(ctx context.Context, actor *domain.Actor, in domain.TourInput) (*domain.Tour, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.Normalize(s.now())
	if err := domain.Validate(&in); err != nil {
		return nil, err
	}

	dest, err := s.destinations.FindByID(ctx, in.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination: %w", err)
	}
	if dest == nil {
		return nil, domain.NewValidationError("destination_id", "Please select a valid destination")
	}

	tour, err := s.tours.Create(ctx, in, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	tour.Destination = dest
	s.images.DecorateTour(tour)

	s.catalog.Invalidate()
	s.publishTour(ctx, events.TourCreated, tour.ID, actor)
	return tour, nil
}

func (s *adminService) UpdateTour(ctx context.Context, actor *domain.Actor, id int64, patch domain.TourPatch) (*domain.Tour, error) {
	current, err := ownedTour(ctx, s.tours, actor, id)
	if err != nil {
		return nil, err
	}
	patch.Normalize()
	if err := domain.Validate(&patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	next := patch.Apply(*current)
	updated, err := s.tours.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	updated.Destination = current.Destination
	s.images.DecorateTour(updated)

	s.catalog.Invalidate()
	s.publishTour(ctx, events.TourUpdated, id, actor)
	return updated, nil
}

func (s *adminService) DeleteTour(ctx context.Context, actor *domain.Actor, id int64) error {
	if _, err := ownedTour(ctx, s.tours, actor, id); err != nil {
		return err
	}
	deleted, err := s.tours.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.catalog.Invalidate()
	s.publishTour(ctx, events.TourDeleted, id, actor)
	return nil
}

func (s *adminService) ListReviews(ctx context.Context, actor *domain.Actor) ([]domain.Review, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListForTourCreator(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ownedTour loads a tour and checks that actor, an admin, created it.
func ownedTour(ctx context.Context, tours postgres.ToursRepo, actor *domain.Actor, id int64) (*domain.Tour, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	tour, err := tours.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour == nil {
		return nil, domain.ErrNotFound
	}
	if tour.CreatedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	return tour, nil
}

func (s *adminService) publishTour(ctx context.Context, subject string, tourID int64, actor *domain.Actor) {
	if err := s.eventBus.Publish(ctx, subject, events.TourChangedEvent{
		TourID:    tourID,
		ActorID:   actor.ID.String(),
		ChangedAt: s.now().UTC(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish tour event", "error", err, "subject", subject, "tour_id", tourID)
	}
}
