package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/platform/mailer"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/diagnosis/sindhu-tours/pkg/auth"
	"github.com/diagnosis/sindhu-tours/pkg/config"
	"github.com/diagnosis/sindhu-tours/pkg/events"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error)
	// ConfirmEmail consumes a registration link and signs the profile in.
	ConfirmEmail(ctx context.Context, token string) (*domain.LoginResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Logout(ctx context.Context, sid string) error
}

type authService struct {
	profiles postgres.ProfilesRepo
	verify   postgres.VerifyRepo
	sessions session.Store
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
}

func NewAuthService(
	profiles postgres.ProfilesRepo,
	verify postgres.VerifyRepo,
	sessions session.Store,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		profiles: profiles,
		verify:   verify,
		sessions: sessions,
		mailer:   mailer,
		eventBus: eventBus,
		config:   config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	req.Normalize()
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.profiles.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if existing != nil {
		return s.reissueConfirmation(ctx, existing, req.Password)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile, err := s.profiles.Create(ctx, &domain.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	confirmURL, err := s.sendConfirmation(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.ProfileRegistered, events.ProfileRegisteredEvent{
		ProfileID: profile.ID.String(),
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish profile registered event", "error", err, "profile_id", profile.ID)
	}

	return s.registered(profile, confirmURL), nil
}

// reissueConfirmation lets the owner of an unconfirmed registration get a
// fresh link by registering again with the same password.
func (s *authService) reissueConfirmation(ctx context.Context, existing *domain.Profile, password string) (*domain.RegisterResponse, error) {
	if existing.EmailVerified {
		return nil, domain.ErrEmailExists
	}
	match, err := argon2id.ComparePasswordAndHash(password, existing.PasswordHash)
	if err != nil || !match {
		return nil, domain.ErrEmailExists
	}
	confirmURL, err := s.sendConfirmation(ctx, existing)
	if err != nil {
		return nil, err
	}
	return s.registered(existing, confirmURL), nil
}

func (s *authService) sendConfirmation(ctx context.Context, profile *domain.Profile) (string, error) {
	token := uuid.New()
	expiresAt := time.Now().Add(s.config.Auth.EmailVerificationTTL)
	if err := s.verify.CreateEmailVerification(ctx, profile.ID, token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to create verification token: %w", err)
	}

	confirmURL := s.confirmURL(token)
	if err := s.mailer.SendConfirmation(ctx, profile.Email, profile.FullName, confirmURL); err != nil {
		logger.ErrorContext(ctx, "Failed to send confirmation email", "error", err, "profile_id", profile.ID)
	}
	return confirmURL, nil
}

func (s *authService) registered(profile *domain.Profile, confirmURL string) *domain.RegisterResponse {
	resp := &domain.RegisterResponse{
		Profile: profile,
		Message: "Registration successful. Please check your email to confirm your account.",
	}
	if s.config.Email.DevMode {
		resp.ConfirmURL = confirmURL
	}
	return resp
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) (*domain.LoginResponse, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	profileID, err := s.verify.ConsumeEmailVerification(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}
	if profileID == uuid.Nil {
		return nil, domain.ErrTokenInvalid
	}

	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verified profile: %w", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return s.openSession(ctx, profile, profile.IsAdmin)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, profile.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}
	if !profile.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}
	if req.AsAdmin && !profile.IsAdmin {
		return nil, domain.ErrNotAdmin
	}
	return s.openSession(ctx, profile, req.AsAdmin)
}

func (s *authService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// openSession caches the actor and signs a token for it. toDashboard picks
// the admin landing page.
func (s *authService) openSession(ctx context.Context, p *domain.Profile, toDashboard bool) (*domain.LoginResponse, error) {
	sid := uuid.NewString()
	actor := domain.NewActor(p)
	if err := s.sessions.Put(ctx, sid, actor, s.config.Auth.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := auth.NewAccessToken(p.ID.String(), sid, p.Role(), s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	redirect := "/"
	if toDashboard {
		redirect = "/admin/dashboard"
	}
	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.Auth.AccessTokenTTL.Seconds()),
		Redirect:    redirect,
		User:        actor,
	}, nil
}

func (s *authService) confirmURL(token uuid.UUID) string {
	return s.config.Email.AppURL + "/auth/callback?token=" + url.QueryEscape(token.String())
}
