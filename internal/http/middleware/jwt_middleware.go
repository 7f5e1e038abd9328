package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/http/response"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/diagnosis/sindhu-tours/pkg/auth"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

// Sessions resolves bearer tokens into the cached actor.
type Sessions struct {
	Store  session.Store
	Secret string
}

// Resolve attaches the actor when a valid token and live session are
// present. Requests without one continue as guests.
func (s *Sessions) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearer(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := auth.Parse(raw, s.Secret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := s.Store.Get(r.Context(), claims.Sid)
		if err != nil {
			logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
			response.InternalError(w, "session unavailable")
			return
		}
		if actor == nil || actor.ID.String() != claims.Sub {
			next.ServeHTTP(w, r)
			return
		}
		ctx := session.WithActor(r.Context(), claims.Sid, actor)
		ctx = context.WithValue(ctx, logger.ActorIDKey, actor.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects guests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			response.Unauthorized(w, domain.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects guests with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := session.FromContext(r.Context())
		if !actor.IsAdmin {
			response.Forbidden(w, domain.ErrNotAdmin.Error())
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}
