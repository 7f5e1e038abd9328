package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/platform/storage"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/karlseguin/ccache/v3"
)

type CatalogService interface {
	// ListTours returns the joined catalog, newest first, keeping only tours
	// whose destination name contains location when it is non-empty.
	ListTours(ctx context.Context, location string) ([]domain.Tour, error)
	GetTour(ctx context.Context, id int64) (*domain.Tour, error)
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	// Invalidate drops cached listings after a tour write.
	Invalidate()
}

const catalogKey = "all"

type catalogService struct {
	tours        postgres.ToursRepo
	destinations postgres.DestinationsRepo
	images       *storage.Images
	ttl          time.Duration

	tourCache *ccache.Cache[[]domain.Tour]
	destCache *ccache.Cache[[]domain.Destination]
}

func NewCatalogService(
	tours postgres.ToursRepo,
	destinations postgres.DestinationsRepo,
	images *storage.Images,
	ttl time.Duration,
) CatalogService {
	return &catalogService{
		tours:        tours,
		destinations: destinations,
		images:       images,
		ttl:          ttl,
		tourCache:    ccache.New(ccache.Configure[[]domain.Tour]().MaxSize(16)),
		destCache:    ccache.New(ccache.Configure[[]domain.Destination]().MaxSize(16)),
	}
}

func (s *catalogService) ListTours(ctx context.Context, location string) ([]domain.Tour, error) {
	all, err := s.allTours(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterByDestination(all, location), nil
}

func (s *catalogService) allTours(ctx context.Context) ([]domain.Tour, error) {
	if s.ttl > 0 {
		if item := s.tourCache.Get(catalogKey); item != nil && !item.Expired() {
			return item.Value(), nil
		}
	}

	tours, err := s.tours.ListWithDestination(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	for i := range tours {
		s.images.DecorateTour(&tours[i])
	}
	if s.ttl > 0 {
		s.tourCache.Set(catalogKey, tours, s.ttl)
	}
	return tours, nil
}

func (s *catalogService) GetTour(ctx context.Context, id int64) (*domain.Tour, error) {
	t, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	s.images.DecorateTour(t)
	return t, nil
}

func (s *catalogService) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	if s.ttl > 0 {
		if item := s.destCache.Get(catalogKey); item != nil && !item.Expired() {
			return item.Value(), nil
		}
	}

	dests, err := s.destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	for i := range dests {
		s.images.DecorateDestination(&dests[i])
	}
	if s.ttl > 0 {
		s.destCache.Set(catalogKey, dests, s.ttl)
	}
	return dests, nil
}

func (s *catalogService) Invalidate() {
	s.tourCache.Delete(catalogKey)
}
