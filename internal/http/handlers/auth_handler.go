package handlers

import (
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
	"github.com/diagnosis/sindhu-tours/internal/session"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AuthCallback confirms a registration link: GET /auth/callback?token=...
func (h *Handlers) AuthCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.BadRequest(w, "Missing token")
		return
	}
	resp, err := h.authService.ConfirmEmail(r.Context(), token)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), session.SessionID(r.Context())); err != nil {
		response.FromError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Role string        `json:"role"`
	User *domain.Actor `json:"user"`
}

// CurrentSession reports the resolved actor, or a guest.
func (h *Handlers) CurrentSession(w http.ResponseWriter, r *http.Request) {
	a := actor(r)
	writeJSON(w, http.StatusOK, sessionResponse{Role: domain.RoleOf(a), User: a})
}
