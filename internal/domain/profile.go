package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	IsAdmin       bool      `json:"is_admin"`
	EmailVerified bool      `json:"email_verified"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Role is derived, never stored.
func (p *Profile) Role() string {
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type ProfileUpdate struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

// Actor is the signed-in identity cached per session. A nil *Actor is a guest.
type Actor struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
}

func NewActor(p *Profile) *Actor {
	return &Actor{ID: p.ID, Name: p.FullName, Email: p.Email, IsAdmin: p.IsAdmin}
}

// RoleOf maps an optional actor to guest, user or admin.
func RoleOf(a *Actor) string {
	switch {
	case a == nil:
		return RoleGuest
	case a.IsAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}
