package handlers

import (
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
	"github.com/diagnosis/sindhu-tours/internal/session"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileService.GetProfile(r.Context(), actor(r))
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.profileService.UpdateProfile(r.Context(), actor(r), session.SessionID(r.Context()), in)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
