package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// reviewUniqueConstraint guards one review per (service_id, user_id).
const reviewUniqueConstraint = "reviews_service_id_user_id_key"

const (
	insertReview = `
		INSERT INTO reviews (id, service_id, user_id, rating, comment, helpful, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectReviewByID = `
		SELECT r.id, r.service_id, r.user_id, COALESCE(u.name, ''), r.rating, r.comment,
		       r.helpful, r.verified, r.created_at, r.updated_at
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`

	existsReview = `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE service_id = $1 AND user_id = $2)`

	listReviewsByService = `
		SELECT r.id, r.service_id, r.user_id, COALESCE(u.name, ''), r.rating, r.comment,
		       r.helpful, r.verified, r.created_at, r.updated_at,
		       count(*) OVER() AS total_count
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.service_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	updateReview = `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = $3
		WHERE id = $4`

	deleteReview = `DELETE FROM reviews WHERE id = $1`

	incrementHelpful = `
		UPDATE reviews SET helpful = helpful + 1
		WHERE id = $1
		RETURNING helpful`

	reviewHistogram = `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE service_id = $1
		GROUP BY rating`
)

// ReviewRepository implements repository.ReviewRepository on PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.Create", insertReview)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, insertReview,
		review.ID,
		review.ServiceID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.Helpful,
		review.Verified,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, reviewUniqueConstraint) {
			return apperrors.Conflict("you have already reviewed this service")
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID returns one review with its author's name.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (_ *domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.GetByID", selectReviewByID)
	defer func() { end(err) }()

	rv, err := scanReview(r.pool.QueryRow(ctx, selectReviewByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	return rv, nil
}

// ExistsForUser reports whether userID already reviewed serviceID.
func (r *ReviewRepository) ExistsForUser(ctx context.Context, serviceID int64, userID string) (_ bool, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.ExistsForUser", existsReview)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, existsReview, serviceID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return exists, nil
}

// ListByService returns a page of reviews for a service, newest first.
func (r *ReviewRepository) ListByService(ctx context.Context, serviceID int64, page pagination.Params) (_ []domain.Review, _ int, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.ListByService", listReviewsByService)
	defer func() { end(err) }()

	limit := page.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	offset := max(page.Offset, 0)

	rows, err := r.pool.Query(ctx, listReviewsByService, serviceID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)
	for rows.Next() {
		var rv domain.Review
		if err = rows.Scan(
			&rv.ID,
			&rv.ServiceID,
			&rv.UserID,
			&rv.UserName,
			&rv.Rating,
			&rv.Comment,
			&rv.Helpful,
			&rv.Verified,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, totalCount, nil
}

// Update stores a revised rating and comment.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.Update", updateReview)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, updateReview, review.Rating, review.Comment, review.UpdatedAt, review.ID)
	if err != nil {
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.Delete", deleteReview)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, deleteReview, id)
	if err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// IncrementHelpful adds one helpful vote in a single statement so concurrent
// votes are never lost.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id string) (_ int, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.IncrementHelpful", incrementHelpful)
	defer func() { end(err) }()

	var helpful int
	if err = r.pool.QueryRow(ctx, incrementHelpful, id).Scan(&helpful); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("review", id)
		}
		return 0, fmt.Errorf("increment helpful %s: %w", id, err)
	}
	return helpful, nil
}

// RatingHistogram aggregates a service's ratings server-side.
func (r *ReviewRepository) RatingHistogram(ctx context.Context, serviceID int64) (_ map[int]int, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.RatingHistogram", reviewHistogram)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, reviewHistogram, serviceID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[int]int, domain.MaxRating)
	for rows.Next() {
		var rating, count int
		if err = rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan histogram row: %w", err)
		}
		hist[rating] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histogram rows: %w", err)
	}
	return hist, nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(
		&rv.ID,
		&rv.ServiceID,
		&rv.UserID,
		&rv.UserName,
		&rv.Rating,
		&rv.Comment,
		&rv.Helpful,
		&rv.Verified,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rv, nil
}
