package session

import (
	"context"

	"github.com/diagnosis/sindhu-tours/internal/domain"
)

type ctxKey struct{}

type entry struct {
	sid   string
	actor *domain.Actor
}

// WithActor places the resolved actor and its session id on ctx.
func WithActor(ctx context.Context, sid string, a *domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry{sid: sid, actor: a})
}

// FromContext is the read path for identity. ok is false for guests.
func FromContext(ctx context.Context) (*domain.Actor, bool) {
	e, ok := ctx.Value(ctxKey{}).(entry)
	if !ok || e.actor == nil {
		return nil, false
	}
	return e.actor, true
}

func SessionID(ctx context.Context) string {
	e, _ := ctx.Value(ctxKey{}).(entry)
	return e.sid
}
