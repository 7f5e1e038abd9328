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

type ToursRepo interface {
	// ListWithDestination returns every tour that joins to a destination,
	// newest first.
	ListWithDestination(ctx context.Context) ([]domain.Tour, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Tour, error)
	FindByID(ctx context.Context, id int64) (*domain.Tour, error)
	Create(ctx context.Context, in domain.TourInput, createdBy uuid.UUID) (*domain.Tour, error)
	Update(ctx context.Context, t *domain.Tour) (*domain.Tour, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ToursRepoImpl struct{ pool *pgxpool.Pool }

func NewToursRepo(pool *pgxpool.Pool) *ToursRepoImpl { return &ToursRepoImpl{pool: pool} }

const tourCols = `t.id, t.name, t.destination_id, t.description, t.pickup_point,
t.duration, t.services, t.max_people, t.price_minor, t.tour_date, t.images,
t.created_by, t.created_at, t.updated_at`

const tourWithDestCols = tourCols + `, d.id, d.name, d.description, d.image, d.created_at`

const tourFromJoin = ` FROM tours t JOIN destinations d ON d.id = t.destination_id`

func scanTour(row pgx.Row, withDest bool) (*domain.Tour, error) {
	var (
		t    domain.Tour
		date time.Time
		d    domain.Destination
	)
	dest := []any{
		&t.ID, &t.Name, &t.DestinationID, &t.Description, &t.PickupPoint,
		&t.Duration, &t.Services, &t.MaxPeople, &t.Price, &date, &t.Images,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	}
	if withDest {
		dest = append(dest, &d.ID, &d.Name, &d.Description, &d.Image, &d.CreatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.Date = date.Format(domain.DateLayout)
	if withDest {
		t.Destination = &d
	}
	return &t, nil
}

func (r *ToursRepoImpl) list(ctx context.Context, q string, args ...any) ([]domain.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Tour, 0, 32)
	for rows.Next() {
		t, err := scanTour(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *ToursRepoImpl) ListWithDestination(ctx context.Context) ([]domain.Tour, error) {
	const q = `SELECT ` + tourWithDestCols + tourFromJoin + ` ORDER BY t.created_at DESC, t.id DESC`
	return r.list(ctx, q)
}

func (r *ToursRepoImpl) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Tour, error) {
	const q = `SELECT ` + tourWithDestCols + tourFromJoin + `
WHERE t.created_by = $1
ORDER BY t.created_at DESC, t.id DESC`
	return r.list(ctx, q, createdBy)
}

func (r *ToursRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Tour, error) {
	const q = `SELECT ` + tourWithDestCols + tourFromJoin + ` WHERE t.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanTour(r.pool.QueryRow(ctx, q, id), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *ToursRepoImpl) Create(ctx context.Context, in domain.TourInput, createdBy uuid.UUID) (*domain.Tour, error) {
	const q = `
INSERT INTO tours AS t (name, destination_id, description, pickup_point, duration,
  services, max_people, price_minor, tour_date, images, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::date,$10,$11)
RETURNING ` + tourCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTour(r.pool.QueryRow(ctx, q,
		in.Name, in.DestinationID, in.Description, in.PickupPoint, in.Duration,
		in.Services, in.MaxPeople, in.Price, in.Date, in.Images, createdBy,
	), false)
}

// Update writes the editable columns. Last write wins.
func (r *ToursRepoImpl) Update(ctx context.Context, t *domain.Tour) (*domain.Tour, error) {
	const q = `
UPDATE tours AS t
SET name=$2, description=$3, max_people=$4, tour_date=$5::date, price_minor=$6, updated_at=now()
WHERE t.id=$1
RETURNING ` + tourCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := scanTour(r.pool.QueryRow(ctx, q, t.ID, t.Name, t.Description, t.MaxPeople, t.Date, t.Price), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return out, err
}

func (r *ToursRepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

var _ ToursRepo = (*ToursRepoImpl)(nil)
