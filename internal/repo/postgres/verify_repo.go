package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerifyRepo stores registration confirmation tokens.
type VerifyRepo interface {
	CreateEmailVerification(ctx context.Context, profileID, token uuid.UUID, expiresAt time.Time) error
	// ConsumeEmailVerification marks a live token used and flags its profile
	// verified. It returns uuid.Nil for unknown, used or expired tokens.
	ConsumeEmailVerification(ctx context.Context, token uuid.UUID) (uuid.UUID, error)
}

type VerifyRepoImpl struct{ pool *pgxpool.Pool }

func NewVerifyRepo(pool *pgxpool.Pool) *VerifyRepoImpl { return &VerifyRepoImpl{pool: pool} }

func (r *VerifyRepoImpl) CreateEmailVerification(ctx context.Context, profileID, token uuid.UUID, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_verification_tokens (profile_id, token, expires_at)
         VALUES ($1, $2, $3)`,
		profileID, token, expiresAt,
	)
	return err
}

func (r *VerifyRepoImpl) ConsumeEmailVerification(ctx context.Context, token uuid.UUID) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback(ctx)

	var profileID uuid.UUID
	err = tx.QueryRow(ctx, `
UPDATE email_verification_tokens
SET used_at = now()
WHERE token = $1
  AND used_at IS NULL
  AND expires_at > now()
RETURNING profile_id
`, token).Scan(&profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE profiles
SET email_verified = true, updated_at = now()
WHERE id = $1
`, profileID); err != nil {
		return uuid.Nil, err
	}
	return profileID, tx.Commit(ctx)
}

var _ VerifyRepo = (*VerifyRepoImpl)(nil)
