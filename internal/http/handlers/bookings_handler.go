package handlers

import (
	"net/http"
	"strings"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
)

// BookTour returns a handler creating bookings in the given initial status.
// The tour page books as pending, the catalog search flow as confirmed.
func (h *Handlers) BookTour(initial domain.BookingStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tourID, ok := pathID(w, r)
		if !ok {
			return
		}
		var form domain.BookingForm
		if !decodeJSON(w, r, &form) {
			return
		}
		key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

		booking, err := h.bookingService.CreateBooking(r.Context(), actor(r), tourID, form, initial, key)
		if err != nil {
			response.FromError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)
	}
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookingService.ListMyBookings(r.Context(), actor(r))
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}
	review, err := h.reviewService.SubmitReview(r.Context(), actor(r), bookingID, in)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
