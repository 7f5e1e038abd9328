package domain

import (
	"strings"

	"github.com/diagnosis/sindhu-tours/internal/utils"
)

type RegisterRequest struct {
	FullName        string `json:"full_name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	IsAdmin         bool   `json:"is_admin"`
}

func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = utils.NormalizeEmail(r.Email)
	r.Phone = utils.NormalizePhone(r.Phone)
}

type RegisterResponse struct {
	Profile *Profile `json:"profile"`
	Message string   `json:"message"`
	// ConfirmURL is only filled when mail delivery is in dev mode.
	ConfirmURL string `json:"confirm_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	AsAdmin  bool   `json:"as_admin"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Redirect    string `json:"redirect"`
	User        *Actor `json:"user"`
}
