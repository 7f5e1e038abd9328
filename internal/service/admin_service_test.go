package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/service"
	"github.com/diagnosis/sindhu-tours/pkg/events"
)

func (f *fixture) adminService(catalog service.CatalogService) service.AdminService {
	return service.NewAdminService(f.profiles, f.tours, f.dests, f.bookings, f.reviews, catalog, f.images, f.bus)
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	cruise := f.tours.seed(f.admin, 1, "Sunset Cruise", 10, 200000)
	fort := f.tours.seed(f.admin, 2, "Fort Walk", 10, 50000)
	f.tours.seed(f.admin, 2, "Empty Tour", 10, 50000)
	otherAdmin := f.profiles.add("other-admin", true)
	foreign := f.tours.seed(otherAdmin, 1, "Foreign", 10, 999900)

	f.bookings.seed(cruise.ID, f.user, 2, domain.BookingPending)
	f.bookings.seed(cruise.ID, f.user, 3, domain.BookingConfirmed)
	f.bookings.seed(fort.ID, f.user, 1, domain.BookingCompleted)
	f.bookings.seed(foreign.ID, f.user, 4, domain.BookingPending)

	catalog := service.NewCatalogService(f.tours, f.dests, f.images, 0)
	dash, err := f.adminService(catalog).Dashboard(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Stats{TotalTours: 3, TotalBookings: 3, TotalRevenue: 200000*5 + 50000, PendingBookings: 1}
	if dash.Stats != want {
		t.Fatalf("stats = %+v, want %+v", dash.Stats, want)
	}
	if dash.Stats.TotalRevenue.String() != "10500.00" {
		t.Fatalf("unexpected revenue %s", dash.Stats.TotalRevenue)
	}
	if len(dash.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(dash.Groups))
	}
	for _, g := range dash.Groups {
		switch g.TourID {
		case cruise.ID:
			if len(g.Bookings) != 2 || !g.CanCompleteAll {
				t.Fatalf("cruise group: %+v", g)
			}
		case fort.ID:
			if g.CanCompleteAll {
				t.Fatalf("fort group has nothing to complete")
			}
		default:
			t.Fatalf("unexpected group %d", g.TourID)
		}
	}
	if dash.Profile == nil || dash.Profile.ID != f.admin.ID {
		t.Fatalf("dashboard must carry the admin profile")
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	f := newFixture()
	svc := f.adminService(service.NewCatalogService(f.tours, f.dests, f.images, 0))

	if _, err := svc.Dashboard(context.Background(), nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("guest: expected ErrUnauthorized, got %v", err)
	}
	_, err := svc.Dashboard(context.Background(), f.user)
	if !errors.Is(err, domain.ErrNotAdmin) || err.Error() != "Not authorized as admin" {
		t.Fatalf("traveller: expected ErrNotAdmin, got %v", err)
	}
}

func tourInput() domain.TourInput {
	return domain.TourInput{
		Name:          " Dolphin Safari ",
		DestinationID: 1,
		Description:   "Morning boat ride",
		PickupPoint:   "Malvan jetty",
		Duration:      3,
		Services:      []string{"Boat", "boat", " Snacks "},
		MaxPeople:     8,
		Price:         150050,
	}
}

func TestCreateTour(t *testing.T) {
	f := newFixture()
	catalog := service.NewCatalogService(f.tours, f.dests, f.images, 0)
	svc := f.adminService(catalog)
	ctx := context.Background()

	tour, err := svc.CreateTour(ctx, f.admin, tourInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tour.Name != "Dolphin Safari" || tour.CreatedBy != f.admin.ID {
		t.Fatalf("unexpected tour: %+v", tour)
	}
	if len(tour.Services) != 2 || tour.Services[0] != "Boat" || tour.Services[1] != "Snacks" {
		t.Fatalf("unexpected services %v", tour.Services)
	}
	if tour.Date == "" || tour.CoverURL != "/assets/tour-thumbnail/default.jpg" {
		t.Fatalf("date and default cover must be filled: %+v", tour)
	}
	if f.bus.count(events.TourCreated) != 1 {
		t.Fatalf("expected tour.created event")
	}

	listed, _ := catalog.ListTours(ctx, "Malvan")
	if len(listed) != 1 || listed[0].ID != tour.ID {
		t.Fatalf("new tour must appear in the catalog, got %+v", listed)
	}
}

func TestCreateTourRejected(t *testing.T) {
	f := newFixture()
	svc := f.adminService(service.NewCatalogService(f.tours, f.dests, f.images, 0))
	ctx := context.Background()

	if _, err := svc.CreateTour(ctx, f.user, tourInput()); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	in := tourInput()
	in.DestinationID = 99
	_, err := svc.CreateTour(ctx, f.admin, in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "destination_id" {
		t.Fatalf("expected destination_id error, got %v", err)
	}

	in = tourInput()
	in.MaxPeople = 0
	if _, err := svc.CreateTour(ctx, f.admin, in); !errors.As(err, &ve) || ve.Field != "max_people" {
		t.Fatalf("expected max_people error, got %v", err)
	}
	if len(f.tours.tours) != 0 {
		t.Fatalf("rejected tours must not be stored")
	}
}

func TestUpdateAndDeleteTour(t *testing.T) {
	f := newFixture()
	tour := f.tours.seed(f.admin, 1, "Sunset Cruise", 4, 200000)
	catalog := service.NewCatalogService(f.tours, f.dests, f.images, 0)
	svc := f.adminService(catalog)
	ctx := context.Background()

	name := "Sunset Cruise Deluxe"
	people := 12
	updated, err := svc.UpdateTour(ctx, f.admin, tour.ID, domain.TourPatch{Name: &name, MaxPeople: &people})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.MaxPeople != 12 || updated.Price != 200000 {
		t.Fatalf("unexpected tour: %+v", updated)
	}

	otherAdmin := f.profiles.add("other-admin", true)
	if _, err := svc.UpdateTour(ctx, otherAdmin, tour.ID, domain.TourPatch{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteTour(ctx, otherAdmin, tour.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	blank := "   "
	var ve *domain.ValidationError
	if _, err := svc.UpdateTour(ctx, f.admin, tour.ID, domain.TourPatch{Name: &blank}); !errors.As(err, &ve) {
		t.Fatalf("blank name must be rejected, got %v", err)
	}

	if err := svc.DeleteTour(ctx, f.admin, tour.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteTour(ctx, f.admin, tour.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.bus.count(events.TourUpdated) != 1 || f.bus.count(events.TourDeleted) != 1 {
		t.Fatalf("unexpected events %v", f.bus.subjects)
	}
}

func TestListReviews(t *testing.T) {
	f := newFixture()
	mine := f.tours.seed(f.admin, 1, "Sunset Cruise", 4, 200000)
	otherAdmin := f.profiles.add("other-admin", true)
	theirs := f.tours.seed(otherAdmin, 1, "Foreign", 4, 200000)
	b1 := f.bookings.seed(mine.ID, f.user, 1, domain.BookingCompleted)
	b2 := f.bookings.seed(theirs.ID, f.user, 1, domain.BookingCompleted)

	reviews := f.reviewService()
	ctx := context.Background()
	if _, err := reviews.SubmitReview(ctx, f.user, b1.ID, domain.ReviewInput{Rating: 5, Comment: "Great"}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := reviews.SubmitReview(ctx, f.user, b2.ID, domain.ReviewInput{Rating: 2, Comment: "Meh"}); err != nil {
		t.Fatalf("review: %v", err)
	}

	svc := f.adminService(service.NewCatalogService(f.tours, f.dests, f.images, 0))
	got, err := svc.ListReviews(ctx, f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].TourName != "Sunset Cruise" {
		t.Fatalf("expected only reviews of own tours, got %+v", got)
	}
}
