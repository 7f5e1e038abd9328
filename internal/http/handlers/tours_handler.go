package handlers

import (
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/http/response"
)

func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := h.catalogService.ListDestinations(r.Context())
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, dests)
}

// ListTours serves the catalog; ?location= narrows it by destination name.
func (h *Handlers) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.catalogService.ListTours(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

func (h *Handlers) GetTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tour, err := h.catalogService.GetTour(r.Context(), id)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}
