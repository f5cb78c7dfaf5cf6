package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

const serviceColumns = `
		s.id, s.name, s.description, s.provider_id, COALESCE(u.name, ''), COALESCE(u.business_type, ''),
		s.category, s.price, s.price_unit, s.location, s.availability, s.tags, s.rating,
		s.created_at, s.updated_at`

const (
	insertService = `
		INSERT INTO services (name, description, provider_id, category, price, price_unit,
		                      location, availability, tags, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	selectServiceByID = `SELECT` + serviceColumns + `
		FROM services s
		LEFT JOIN users u ON u.id = s.provider_id
		WHERE s.id = $1`

	listCandidates = `
		SELECT s.id, s.name, s.description, COALESCE(u.name, ''), COALESCE(u.business_type, ''),
		       s.category, s.price, s.price_unit, s.location, s.rating
		FROM services s
		LEFT JOIN users u ON u.id = s.provider_id
		ORDER BY s.id`

	updateServiceRating = `UPDATE services SET rating = $1 WHERE id = $2`
)

// ServiceRepository implements repository.ServiceRepository on PostgreSQL.
type ServiceRepository struct {
	pool database.DBTX
}

// NewServiceRepository creates a PostgreSQL-backed catalog repository.
func NewServiceRepository(pool database.DBTX) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

// Create inserts a service and sets its generated id.
func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) (err error) {
	ctx, end := database.TraceQuery(ctx, "services.Create", insertService)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, insertService,
		s.Name,
		s.Description,
		s.ProviderID,
		s.Category,
		s.Price,
		s.PriceUnit,
		s.Location,
		s.Availability,
		s.Tags,
		s.Rating,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID returns one service with its provider's name and business type.
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (_ *domain.Service, err error) {
	ctx, end := database.TraceQuery(ctx, "services.GetByID", selectServiceByID)
	defer func() { end(err) }()

	var s domain.Service
	err = r.pool.QueryRow(ctx, selectServiceByID, id).Scan(serviceDest(&s)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("service", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	return &s, nil
}

// List returns a filtered page of the catalog, newest first.
func (r *ServiceRepository) List(ctx context.Context, filter repository.ServiceFilter) (_ []domain.Service, _ int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("s.category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}
	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("s.location ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Location+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
		       count(*) OVER() AS total_count
		FROM services s
		LEFT JOIN users u ON u.id = s.provider_id
		%s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`,
		serviceColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.Page.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	args = append(args, limit, max(filter.Page.Offset, 0))

	ctx, end := database.TraceQuery(ctx, "services.List", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var (
		services   []domain.Service
		totalCount int
	)
	for rows.Next() {
		var s domain.Service
		if err = rows.Scan(append(serviceDest(&s), &totalCount)...); err != nil {
			return nil, 0, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate service rows: %w", err)
	}

	if services == nil {
		services = []domain.Service{}
	}
	return services, totalCount, nil
}

// ListCandidates returns the whole catalog in id order for ranking.
func (r *ServiceRepository) ListCandidates(ctx context.Context) (_ []domain.ServiceCandidate, err error) {
	ctx, end := database.TraceQuery(ctx, "services.ListCandidates", listCandidates)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listCandidates)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.ServiceCandidate{}
	for rows.Next() {
		var c domain.ServiceCandidate
		if err = rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Provider,
			&c.BusinessType,
			&c.Category,
			&c.Price,
			&c.PriceUnit,
			&c.Location,
			&c.Rating,
		); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}
	return candidates, nil
}

// UpdateRating stores the service's current average rating.
func (r *ServiceRepository) UpdateRating(ctx context.Context, id int64, rating float64) (err error) {
	ctx, end := database.TraceQuery(ctx, "services.UpdateRating", updateServiceRating)
	defer func() { end(err) }()

	if _, err = r.pool.Exec(ctx, updateServiceRating, rating, id); err != nil {
		return fmt.Errorf("update service %d rating: %w", id, err)
	}
	return nil
}

func serviceDest(s *domain.Service) []any {
	return []any{
		&s.ID,
		&s.Name,
		&s.Description,
		&s.ProviderID,
		&s.ProviderName,
		&s.BusinessType,
		&s.Category,
		&s.Price,
		&s.PriceUnit,
		&s.Location,
		&s.Availability,
		&s.Tags,
		&s.Rating,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}
