package handlers

import (
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
)

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.adminService.Dashboard(r.Context(), actor(r))
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handlers) CreateTour(w http.ResponseWriter, r *http.Request) {
	var in domain.TourInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tour, err := h.adminService.CreateTour(r.Context(), actor(r), in)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tour)
}

func (h *Handlers) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.TourPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	tour, err := h.adminService.UpdateTour(r.Context(), actor(r), id, patch)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

func (h *Handlers) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.adminService.DeleteTour(r.Context(), actor(r), id); err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.bookingService.CompleteBooking(r.Context(), actor(r), id)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CompleteTour marks every open booking of a tour as completed.
func (h *Handlers) CompleteTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.bookingService.CompleteAllForTour(r.Context(), actor(r), id)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"completed": n})
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.adminService.ListReviews(r.Context(), actor(r))
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
