package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
	"github.com/diagnosis/sindhu-tours/internal/service"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	authService    service.AuthService
	catalogService service.CatalogService
	bookingService service.BookingService
	reviewService  service.ReviewService
	adminService   service.AdminService
	profileService service.ProfileService
}

func New(
	authService service.AuthService,
	catalogService service.CatalogService,
	bookingService service.BookingService,
	reviewService service.ReviewService,
	adminService service.AdminService,
	profileService service.ProfileService,
) *Handlers {
	return &Handlers{
		authService:    authService,
		catalogService: catalogService,
		bookingService: bookingService,
		reviewService:  reviewService,
		adminService:   adminService,
		profileService: profileService,
	}
}

// Helper functions for common response patterns
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reports a 400 itself and returns false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid id")
		return 0, false
	}
	return id, true
}

// actor is nil for guests.
func actor(r *http.Request) *domain.Actor {
	a, _ := session.FromContext(r.Context())
	return a
}
