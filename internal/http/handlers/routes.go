package handlers

import (
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	mw "github.com/diagnosis/sindhu-tours/internal/http/middleware"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the /v1 API. loginLimit may be nil.
func (h *Handlers) Routes(sessions *mw.Sessions, loginLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sessions.Resolve)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		if loginLimit != nil {
			r.With(loginLimit).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Get("/callback", h.AuthCallback)
		r.With(mw.RequireUser).Post("/logout", h.Logout)
	})
	r.Get("/session", h.CurrentSession)

	r.Get("/destinations", h.ListDestinations)
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", h.ListTours)
		r.Get("/{id}", h.GetTour)
		// guests reach the service so they get the booking-specific message
		r.Post("/{id}/bookings", h.BookTour(domain.BookingPending))
	})
	r.Post("/catalog/tours/{id}/bookings", h.BookTour(domain.BookingConfirmed))

	r.Route("/me", func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Get("/", h.GetProfile)
		r.Patch("/profile", h.UpdateProfile)
		r.Get("/bookings", h.ListMyBookings)
		r.Post("/bookings/{id}/review", h.SubmitReview)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.RequireAdmin)
		r.Get("/dashboard", h.Dashboard)
		r.Post("/tours", h.CreateTour)
		r.Patch("/tours/{id}", h.UpdateTour)
		r.Delete("/tours/{id}", h.DeleteTour)
		r.Post("/tours/{id}/complete", h.CompleteTour)
		r.Post("/bookings/{id}/complete", h.CompleteBooking)
		r.Get("/reviews", h.ListReviews)
	})
	return r
}
