package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepo interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	// ListByUser joins the tour snapshot and derives has_review.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListByTours(ctx context.Context, tourIDs []int64) ([]domain.Booking, error)
	// Complete moves one booking to tour completed if it is still in an
	// initial status. It returns nil when no row changed.
	Complete(ctx context.Context, id int64) (*domain.Booking, error)
	CompleteAllForTour(ctx context.Context, tourID int64) ([]int64, error)
}

type BookingRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepoImpl { return &BookingRepoImpl{pool: pool} }

const bookingCols = `b.id, b.tour_id, b.user_id, b.leader_name, b.email, b.phone,
b.number_of_people, b.status, b.created_at, b.updated_at`

// initial statuses, kept in SQL so a concurrent completion cannot regress
const openStatuses = `('pending', 'booking confirmed')`

func bookingDest(b *domain.Booking) []any {
	return []any{
		&b.ID, &b.TourID, &b.UserID, &b.LeaderName, &b.Email, &b.Phone,
		&b.NumberOfPeople, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
}

func (r *BookingRepoImpl) Create(ctx context.Context, in *domain.Booking) (*domain.Booking, error) {
	const q = `
INSERT INTO bookings AS b (tour_id, user_id, leader_name, email, phone, number_of_people, status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + bookingCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	if err := r.pool.QueryRow(ctx, q,
		in.TourID, in.UserID, in.LeaderName, in.Email, in.Phone, in.NumberOfPeople, in.Status,
	).Scan(bookingDest(&b)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + `,
  EXISTS (SELECT 1 FROM reviews rv WHERE rv.booking_id = b.id)
FROM bookings b WHERE b.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	if err := r.pool.QueryRow(ctx, q, id).Scan(append(bookingDest(&b), &b.HasReview)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + `,
  EXISTS (SELECT 1 FROM reviews rv WHERE rv.booking_id = b.id),
  t.id, t.name, t.tour_date, t.price_minor, d.name,
  COALESCE(t.images[1], '')
FROM bookings b
JOIN tours t ON t.id = b.tour_id
LEFT JOIN destinations d ON d.id = t.destination_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC, b.id DESC`
	return r.listWithSnapshot(ctx, q, userID)
}

func (r *BookingRepoImpl) ListByTours(ctx context.Context, tourIDs []int64) ([]domain.Booking, error) {
	if len(tourIDs) == 0 {
		return []domain.Booking{}, nil
	}
	const q = `SELECT ` + bookingCols + `,
  EXISTS (SELECT 1 FROM reviews rv WHERE rv.booking_id = b.id),
  t.id, t.name, t.tour_date, t.price_minor, d.name,
  COALESCE(t.images[1], '')
FROM bookings b
LEFT JOIN tours t ON t.id = b.tour_id
LEFT JOIN destinations d ON d.id = t.destination_id
WHERE b.tour_id = ANY($1)
ORDER BY b.created_at DESC, b.id DESC`
	return r.listWithSnapshot(ctx, q, tourIDs)
}

func (r *BookingRepoImpl) listWithSnapshot(ctx context.Context, q string, arg any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0, 16)
	for rows.Next() {
		var (
			b         domain.Booking
			tourID    *int64
			tourName  *string
			tourDate  *time.Time
			tourPrice *domain.Money
			destName  *string
			image     string
		)
		dest := append(bookingDest(&b), &b.HasReview, &tourID, &tourName, &tourDate, &tourPrice, &destName, &image)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if tourID != nil {
			snap := &domain.TourSnapshot{ID: *tourID, Image: image}
			if tourName != nil {
				snap.Name = *tourName
			}
			if tourDate != nil {
				snap.Date = tourDate.Format(domain.DateLayout)
			}
			if tourPrice != nil {
				snap.Price = *tourPrice
			}
			if destName != nil {
				snap.DestinationName = *destName
			}
			b.Tour = snap
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepoImpl) Complete(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `
UPDATE bookings AS b
SET status = 'tour completed', updated_at = now()
WHERE b.id = $1 AND b.status IN ` + openStatuses + `
RETURNING ` + bookingCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	if err := r.pool.QueryRow(ctx, q, id).Scan(bookingDest(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) CompleteAllForTour(ctx context.Context, tourID int64) ([]int64, error) {
	const q = `
UPDATE bookings
SET status = 'tour completed', updated_at = now()
WHERE tour_id = $1 AND status IN ` + openStatuses + `
RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, tourID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

var _ BookingRepo = (*BookingRepoImpl)(nil)
