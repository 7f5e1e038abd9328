package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DestinationsRepo interface {
	List(ctx context.Context) ([]domain.Destination, error)
	FindByID(ctx context.Context, id int64) (*domain.Destination, error)
}

type DestinationsRepoImpl struct{ pool *pgxpool.Pool }

func NewDestinationsRepo(pool *pgxpool.Pool) *DestinationsRepoImpl {
	return &DestinationsRepoImpl{pool: pool}
}

const destinationCols = `id, name, description, image, created_at`

func (r *DestinationsRepoImpl) List(ctx context.Context) ([]domain.Destination, error) {
	const q = `SELECT ` + destinationCols + ` FROM destinations ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Destination, 0, 16)
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Image, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DestinationsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Destination, error) {
	const q = `SELECT ` + destinationCols + ` FROM destinations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d domain.Destination
	if err := r.pool.QueryRow(ctx, q, id).Scan(&d.ID, &d.Name, &d.Description, &d.Image, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

var _ DestinationsRepo = (*DestinationsRepoImpl)(nil)
