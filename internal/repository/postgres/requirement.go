package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

const requirementColumns = `
		q.id, q.customer_id, COALESCE(u.name, ''), q.title, q.description, q.category,
		q.location, q.budget, q.status, q.quotations_count, q.created_at, q.updated_at`

const (
	insertRequirement = `
		INSERT INTO requirements (id, customer_id, title, description, category, location,
		                          budget, status, quotations_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	selectRequirementByID = `SELECT` + requirementColumns + `
		FROM requirements q
		LEFT JOIN users u ON u.id = q.customer_id
		WHERE q.id = $1`

	listRequirementsByCustomer = `SELECT` + requirementColumns + `
		FROM requirements q
		LEFT JOIN users u ON u.id = q.customer_id
		WHERE q.customer_id = $1
		ORDER BY q.created_at DESC`

	updateRequirementStatus = `
		UPDATE requirements SET status = $1, updated_at = NOW()
		WHERE id = $2`
)

// RequirementRepository implements repository.RequirementRepository on PostgreSQL.
type RequirementRepository struct {
	pool database.DBTX
}

// NewRequirementRepository creates a PostgreSQL-backed requirement repository.
func NewRequirementRepository(pool database.DBTX) *RequirementRepository {
	return &RequirementRepository{pool: pool}
}

// Create inserts a requirement.
func (r *RequirementRepository) Create(ctx context.Context, q *domain.Requirement) (err error) {
	ctx, end := database.TraceQuery(ctx, "requirements.Create", insertRequirement)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, insertRequirement,
		q.ID,
		q.CustomerID,
		q.Title,
		q.Description,
		q.Category,
		q.Location,
		q.Budget,
		q.Status,
		q.QuotationsCount,
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

// GetByID returns one requirement with its customer's name.
func (r *RequirementRepository) GetByID(ctx context.Context, id string) (_ *domain.Requirement, err error) {
	ctx, end := database.TraceQuery(ctx, "requirements.GetByID", selectRequirementByID)
	defer func() { end(err) }()

	var q domain.Requirement
	if err = r.pool.QueryRow(ctx, selectRequirementByID, id).Scan(requirementDest(&q)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("requirement", id)
		}
		return nil, fmt.Errorf("get requirement %s: %w", id, err)
	}
	return &q, nil
}

// ListOpen returns the newest open requirements matching filter.
func (r *RequirementRepository) ListOpen(ctx context.Context, filter repository.RequirementFilter) (_ []domain.Requirement, err error) {
	conditions := []string{"q.status = $1"}
	args := []any{domain.RequirementStatusOpen}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("q.category = $%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		conditions = append(conditions, fmt.Sprintf("q.location = $%d", len(args)))
	}
	args = append(args, repository.MaxOpenRequirements)

	query := fmt.Sprintf(`
		SELECT %s
		FROM requirements q
		LEFT JOIN users u ON u.id = q.customer_id
		WHERE %s
		ORDER BY q.created_at DESC
		LIMIT $%d`,
		requirementColumns, strings.Join(conditions, " AND "), len(args),
	)

	ctx, end := database.TraceQuery(ctx, "requirements.ListOpen", query)
	defer func() { end(err) }()

	return r.list(ctx, query, args...)
}

// ListByCustomer returns every requirement a customer posted.
func (r *RequirementRepository) ListByCustomer(ctx context.Context, customerID string) (_ []domain.Requirement, err error) {
	ctx, end := database.TraceQuery(ctx, "requirements.ListByCustomer", listRequirementsByCustomer)
	defer func() { end(err) }()

	return r.list(ctx, listRequirementsByCustomer, customerID)
}

// UpdateStatus sets the status and returns the stored requirement.
func (r *RequirementRepository) UpdateStatus(ctx context.Context, id, status string) (_ *domain.Requirement, err error) {
	ctx, end := database.TraceQuery(ctx, "requirements.UpdateStatus", updateRequirementStatus)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, updateRequirementStatus, status, id)
	if err != nil {
		return nil, fmt.Errorf("update requirement %s status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return nil, apperrors.NotFound("requirement", id)
	}
	return r.GetByID(ctx, id)
}

func (r *RequirementRepository) list(ctx context.Context, query string, args ...any) ([]domain.Requirement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	requirements := []domain.Requirement{}
	for rows.Next() {
		var q domain.Requirement
		if err := rows.Scan(requirementDest(&q)...); err != nil {
			return nil, fmt.Errorf("scan requirement row: %w", err)
		}
		requirements = append(requirements, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirement rows: %w", err)
	}
	return requirements, nil
}

func requirementDest(q *domain.Requirement) []any {
	return []any{
		&q.ID,
		&q.CustomerID,
		&q.CustomerName,
		&q.Title,
		&q.Description,
		&q.Category,
		&q.Location,
		&q.Budget,
		&q.Status,
		&q.QuotationsCount,
		&q.CreatedAt,
		&q.UpdatedAt,
	}
}
