package postgres

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRepo remembers which booking a client-supplied key produced.
// A key is reserved before the booking is inserted so concurrent submits
// with the same key cannot both create rows.
type IdempotencyRepo interface {
	// Reserve claims key. When another request already holds it, reserved is
	// false and existingBookingID is the stored booking, or 0 while that
	// request is still in flight.
	Reserve(ctx context.Context, key string) (existingBookingID int64, reserved bool, err error)
	// Complete attaches the created booking to a reserved key.
	Complete(ctx context.Context, key string, bookingID int64) error
	// Release drops a reservation that never produced a booking.
	Release(ctx context.Context, key string) error
}

type IdempotencyRepoImpl struct {
	pool       *pgxpool.Pool
	ttl        time.Duration
	reserveTTL time.Duration
}

func NewIdempotencyRepo(pool *pgxpool.Pool) *IdempotencyRepoImpl {
	return &IdempotencyRepoImpl{pool: pool, ttl: 24 * time.Hour, reserveTTL: time.Minute}
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:])
}

func (r *IdempotencyRepoImpl) Reserve(ctx context.Context, key string) (int64, bool, error) {
	keyHash := hashKey(key)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// expired rows, including abandoned reservations, are taken over
	var claimed string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO booking_idempotency (key_hash, booking_id, expires_at)
		VALUES ($1, NULL, $2)
		ON CONFLICT (key_hash) DO UPDATE
		SET booking_id = NULL, expires_at = EXCLUDED.expires_at, created_at = now()
		WHERE booking_idempotency.expires_at <= now()
		RETURNING key_hash`,
		keyHash, time.Now().Add(r.reserveTTL),
	).Scan(&claimed)
	if err == nil {
		return 0, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	var existing *int64
	err = r.pool.QueryRow(ctx,
		`SELECT booking_id FROM booking_idempotency WHERE key_hash = $1`,
		keyHash,
	).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if existing == nil {
		return 0, false, nil
	}
	return *existing, false, nil
}

func (r *IdempotencyRepoImpl) Complete(ctx context.Context, key string, bookingID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`UPDATE booking_idempotency SET booking_id = $2, expires_at = $3 WHERE key_hash = $1`,
		hashKey(key), bookingID, time.Now().Add(r.ttl),
	)
	return err
}

func (r *IdempotencyRepoImpl) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`DELETE FROM booking_idempotency WHERE key_hash = $1 AND booking_id IS NULL`,
		hashKey(key),
	)
	return err
}

var _ IdempotencyRepo = (*IdempotencyRepoImpl)(nil)
