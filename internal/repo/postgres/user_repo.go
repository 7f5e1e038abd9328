package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, id uuid.UUID, in domain.ProfileUpdate) (*domain.Profile, error)
}

type ProfilesRepoImpl struct{ pool *pgxpool.Pool }

func NewProfilesRepo(pool *pgxpool.Pool) *ProfilesRepoImpl { return &ProfilesRepoImpl{pool: pool} }

const profileCols = `id, full_name, email, phone, password_hash, is_admin, email_verified, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash,
		&p.IsAdmin, &p.EmailVerified, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts an unverified profile. A duplicate email yields
// domain.ErrEmailExists.
func (r *ProfilesRepoImpl) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	const q = `
INSERT INTO profiles (full_name, email, phone, password_hash, is_admin)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + profileCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := scanProfile(r.pool.QueryRow(ctx, q, p.FullName, p.Email, p.Phone, p.PasswordHash, p.IsAdmin))
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailExists
	}
	return out, err
}

func (r *ProfilesRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanProfile(r.pool.QueryRow(ctx, q, email))
}

func (r *ProfilesRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanProfile(r.pool.QueryRow(ctx, q, id))
}

func (r *ProfilesRepoImpl) Update(ctx context.Context, id uuid.UUID, in domain.ProfileUpdate) (*domain.Profile, error) {
	const q = `
UPDATE profiles SET full_name=$2, phone=$3, updated_at=now()
WHERE id=$1
RETURNING ` + profileCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanProfile(r.pool.QueryRow(ctx, q, id, in.FullName, in.Phone))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ProfilesRepo = (*ProfilesRepoImpl)(nil)
