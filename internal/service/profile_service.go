package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/diagnosis/sindhu-tours/internal/utils"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

type ProfileService interface {
	GetProfile(ctx context.Context, actor *domain.Actor) (*domain.Profile, error)
	// UpdateProfile edits the actor's own profile and refreshes the cached
	// display name of the session sid.
	UpdateProfile(ctx context.Context, actor *domain.Actor, sid string, in domain.ProfileUpdate) (*domain.Profile, error)
}

type profileService struct {
	profiles postgres.ProfilesRepo
	sessions session.Store
}

func NewProfileService(profiles postgres.ProfilesRepo, sessions session.Store) ProfileService {
	return &profileService{profiles: profiles, sessions: sessions}
}

func (s *profileService) GetProfile(ctx context.Context, actor *domain.Actor) (*domain.Profile, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	p, err := s.profiles.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, actor *domain.Actor, sid string, in domain.ProfileUpdate) (*domain.Profile, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = utils.NormalizePhone(in.Phone)
	if err := domain.Validate(&in); err != nil {
		return nil, err
	}

	p, err := s.profiles.Update(ctx, actor.ID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if sid != "" {
		if err := s.sessions.Refresh(ctx, sid, domain.NewActor(p)); err != nil {
			logger.ErrorContext(ctx, "Failed to refresh session", "error", err, "profile_id", p.ID)
		}
	}
	return p, nil
}
