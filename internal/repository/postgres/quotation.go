package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

// quotationUniqueConstraint guards one quotation per (requirement_id, vendor_id).
const quotationUniqueConstraint = "quotations_requirement_id_vendor_id_key"

const (
	spendCredit = `
		UPDATE users SET credits = credits - 1
		WHERE id = $1 AND credits > 0
		RETURNING credits`

	bumpQuotationsCount = `
		UPDATE requirements SET quotations_count = quotations_count + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'open'`

	insertQuotation = `
		INSERT INTO quotations (id, requirement_id, vendor_id, customer_id, price, description,
		                        timeline, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	existsQuotation = `
		SELECT EXISTS (SELECT 1 FROM quotations WHERE requirement_id = $1 AND vendor_id = $2)`

	listReceivedQuotations = `
		SELECT q.id, q.requirement_id, COALESCE(r.title, ''), q.vendor_id, COALESCE(v.name, ''),
		       COALESCE(v.business_type, ''), q.customer_id, '', q.price, q.description,
		       q.timeline, q.status, q.created_at
		FROM quotations q
		LEFT JOIN users v ON v.id = q.vendor_id
		LEFT JOIN requirements r ON r.id = q.requirement_id
		WHERE q.customer_id = $1
		ORDER BY q.created_at DESC`

	listSentQuotations = `
		SELECT q.id, q.requirement_id, COALESCE(r.title, ''), q.vendor_id, '', '',
		       q.customer_id, COALESCE(c.name, ''), q.price, q.description,
		       q.timeline, q.status, q.created_at
		FROM quotations q
		LEFT JOIN users c ON c.id = q.customer_id
		LEFT JOIN requirements r ON r.id = q.requirement_id
		WHERE q.vendor_id = $1
		ORDER BY q.created_at DESC`

	selectQuotationForCustomer = `
		SELECT q.id, q.requirement_id, COALESCE(r.title, ''), q.vendor_id, COALESCE(v.name, ''),
		       COALESCE(v.business_type, ''), q.customer_id, '', q.price, q.description,
		       q.timeline, q.status, q.created_at
		FROM quotations q
		LEFT JOIN users v ON v.id = q.vendor_id
		LEFT JOIN requirements r ON r.id = q.requirement_id
		WHERE q.id = $1 AND q.customer_id = $2`

	updateQuotationStatus = `UPDATE quotations SET status = $1 WHERE id = $2`
)

// QuotationRepository implements repository.QuotationRepository on PostgreSQL.
type QuotationRepository struct {
	pool database.DBTX
}

// NewQuotationRepository creates a PostgreSQL-backed quotation repository.
func NewQuotationRepository(pool database.DBTX) *QuotationRepository {
	return &QuotationRepository{pool: pool}
}

// Send spends a credit, bumps the requirement's counter and stores the
// quotation atomically. Nothing is written when any step fails.
func (r *QuotationRepository) Send(ctx context.Context, q *domain.Quotation) (_ int, err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.Send", insertQuotation)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var remaining int
	if err = tx.QueryRow(ctx, spendCredit, q.VendorID).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.InvalidInput("insufficient credits")
		}
		return 0, fmt.Errorf("spend credit: %w", err)
	}

	ct, err := tx.Exec(ctx, bumpQuotationsCount, q.RequirementID)
	if err != nil {
		return 0, fmt.Errorf("bump quotations count: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, apperrors.NotFound("requirement", q.RequirementID)
	}

	_, err = tx.Exec(ctx, insertQuotation,
		q.ID,
		q.RequirementID,
		q.VendorID,
		q.CustomerID,
		q.Price,
		q.Description,
		q.Timeline,
		q.Status,
		q.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, quotationUniqueConstraint) {
			return 0, apperrors.Conflict("you have already sent a quotation for this requirement")
		}
		return 0, fmt.Errorf("insert quotation: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return remaining, nil
}

// ExistsForVendor reports whether vendorID already quoted requirementID.
func (r *QuotationRepository) ExistsForVendor(ctx context.Context, requirementID, vendorID string) (_ bool, err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.ExistsForVendor", existsQuotation)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, existsQuotation, requirementID, vendorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing quotation: %w", err)
	}
	return exists, nil
}

// ListReceived returns the quotations a customer received, with vendor details.
func (r *QuotationRepository) ListReceived(ctx context.Context, customerID string) (_ []domain.Quotation, err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.ListReceived", listReceivedQuotations)
	defer func() { end(err) }()

	return r.list(ctx, listReceivedQuotations, customerID)
}

// ListSent returns the quotations a vendor sent, with customer names.
func (r *QuotationRepository) ListSent(ctx context.Context, vendorID string) (_ []domain.Quotation, err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.ListSent", listSentQuotations)
	defer func() { end(err) }()

	return r.list(ctx, listSentQuotations, vendorID)
}

// GetForCustomer returns a quotation addressed to customerID. Quotations of
// other customers are reported as not found.
func (r *QuotationRepository) GetForCustomer(ctx context.Context, id, customerID string) (_ *domain.Quotation, err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.GetForCustomer", selectQuotationForCustomer)
	defer func() { end(err) }()

	var q domain.Quotation
	if err = r.pool.QueryRow(ctx, selectQuotationForCustomer, id, customerID).Scan(quotationDest(&q)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("quotation", id)
		}
		return nil, fmt.Errorf("get quotation %s: %w", id, err)
	}
	return &q, nil
}

// UpdateStatus sets a quotation's status.
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id, status string) (err error) {
	ctx, end := database.TraceQuery(ctx, "quotations.UpdateStatus", updateQuotationStatus)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, updateQuotationStatus, status, id)
	if err != nil {
		return fmt.Errorf("update quotation %s status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("quotation", id)
	}
	return nil
}

func (r *QuotationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Quotation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	quotations := []domain.Quotation{}
	for rows.Next() {
		var q domain.Quotation
		if err := rows.Scan(quotationDest(&q)...); err != nil {
			return nil, fmt.Errorf("scan quotation row: %w", err)
		}
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotation rows: %w", err)
	}
	return quotations, nil
}

func quotationDest(q *domain.Quotation) []any {
	return []any{
		&q.ID,
		&q.RequirementID,
		&q.RequirementTitle,
		&q.VendorID,
		&q.VendorName,
		&q.VendorBusiness,
		&q.CustomerID,
		&q.CustomerName,
		&q.Price,
		&q.Description,
		&q.Timeline,
		&q.Status,
		&q.CreatedAt,
	}
}
