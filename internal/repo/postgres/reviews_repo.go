package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewsRepo interface {
	// Create fails with domain.ErrReviewExists when the booking already has one.
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	ListForTourCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Review, error)
}

type ReviewsRepoImpl struct{ pool *pgxpool.Pool }

func NewReviewsRepo(pool *pgxpool.Pool) *ReviewsRepoImpl { return &ReviewsRepoImpl{pool: pool} }

const reviewCols = `rv.id, rv.tour_id, rv.booking_id, rv.user_id, rv.rating, rv.comment, rv.created_at`

func (r *ReviewsRepoImpl) Create(ctx context.Context, in *domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews AS rv (tour_id, booking_id, user_id, rating, comment)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + reviewCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Review
	err := r.pool.QueryRow(ctx, q, in.TourID, in.BookingID, in.UserID, in.Rating, in.Comment).Scan(
		&out.ID, &out.TourID, &out.BookingID, &out.UserID, &out.Rating, &out.Comment, &out.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrReviewExists
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReviewsRepoImpl) ListForTourCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Review, error) {
	const q = `SELECT ` + reviewCols + `, t.name, COALESCE(p.full_name, '')
FROM reviews rv
JOIN tours t ON t.id = rv.tour_id
LEFT JOIN profiles p ON p.id = rv.user_id
WHERE t.created_by = $1
ORDER BY rv.created_at DESC, rv.id DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 16)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID, &rv.TourID, &rv.BookingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.TourName, &rv.ReviewerName,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

var _ ReviewsRepo = (*ReviewsRepoImpl)(nil)
