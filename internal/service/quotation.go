package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/notify"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

// QuotationEvents publishes quotation events.
type QuotationEvents interface {
	PublishQuotationSent(ctx context.Context, q *domain.Quotation) error
	PublishQuotationStatusChanged(ctx context.Context, q *domain.Quotation) error
}

// SendQuotationInput holds the parameters of a provider's quotation.
type SendQuotationInput struct {
	RequirementID string
	Price         int64
	Description   string
	Timeline      string
}

// QuotationService handles the quote exchange between providers and customers.
type QuotationService struct {
	quotations   repository.QuotationRepository
	requirements repository.RequirementRepository
	users        repository.UserRepository
	events       QuotationEvents
	notifier     notify.Broadcaster
	logger       *slog.Logger
}

// NewQuotationService creates a quotation service. events and notifier may be nil.
func NewQuotationService(
	quotations repository.QuotationRepository,
	requirements repository.RequirementRepository,
	users repository.UserRepository,
	events QuotationEvents,
	notifier notify.Broadcaster,
	logger *slog.Logger,
) *QuotationService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &QuotationService{
		quotations:   quotations,
		requirements: requirements,
		users:        users,
		events:       events,
		notifier:     notifier,
		logger:       logger,
	}
}

// Send quotes an open requirement on behalf of vendorID, spending one
// credit. It returns the stored quotation and the vendor's remaining credits.
func (s *QuotationService) Send(ctx context.Context, vendorID string, input *SendQuotationInput) (*domain.Quotation, int, error) {
	if input.Price <= 0 {
		return nil, 0, apperrors.InvalidInput("price must be positive")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, 0, apperrors.InvalidInput("description is required")
	}
	if strings.TrimSpace(input.Timeline) == "" {
		return nil, 0, apperrors.InvalidInput("timeline is required")
	}

	vendor, err := s.users.GetByID(ctx, vendorID)
	if err != nil {
		return nil, 0, err
	}
	if !vendor.IsProvider() {
		return nil, 0, apperrors.Forbidden("only providers can send quotations")
	}
	if vendor.Credits == nil || *vendor.Credits < 1 {
		return nil, 0, apperrors.InvalidInput("insufficient credits")
	}

	requirement, err := s.requirements.GetByID(ctx, input.RequirementID)
	if err != nil {
		return nil, 0, err
	}
	if !requirement.IsOpen() {
		return nil, 0, apperrors.NotFound("requirement", input.RequirementID)
	}

	exists, err := s.quotations.ExistsForVendor(ctx, input.RequirementID, vendorID)
	if err != nil {
		return nil, 0, fmt.Errorf("send quotation: %w", err)
	}
	if exists {
		return nil, 0, apperrors.Conflict("you have already sent a quotation for this requirement")
	}

	q := &domain.Quotation{
		ID:               uuid.New().String(),
		RequirementID:    requirement.ID,
		RequirementTitle: requirement.Title,
		VendorID:         vendorID,
		VendorName:       vendor.Name,
		VendorBusiness:   vendor.BusinessType,
		CustomerID:       requirement.CustomerID,
		Price:            input.Price,
		Description:      input.Description,
		Timeline:         input.Timeline,
		Status:           domain.QuotationStatusSent,
		CreatedAt:        time.Now().UTC(),
	}
	remaining, err := s.quotations.Send(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("send quotation: %w", err)
	}

	s.logger.InfoContext(ctx, "quotation sent",
		slog.String("quotation_id", q.ID),
		slog.String("requirement_id", q.RequirementID),
		slog.String("vendor_id", vendorID),
		slog.Int("remaining_credits", remaining),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "quotation.sent", s.events.PublishQuotationSent(ctx, q))
	}
	broadcast(ctx, s.notifier, s.logger, q.CustomerID, notify.Message{
		Kind:  notify.KindQuotationReceived,
		Title: "New quotation",
		Body:  fmt.Sprintf("%s quoted ₹%d for %q", vendor.Name, q.Price, requirement.Title),
		Ref:   q.ID,
	})

	return q, remaining, nil
}

// ListReceived returns the quotations customerID received, newest first.
func (s *QuotationService) ListReceived(ctx context.Context, customerID string) ([]domain.Quotation, error) {
	list, err := s.quotations.ListReceived(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list received quotations: %w", err)
	}
	return list, nil
}

// ListSent returns the quotations vendorID sent, newest first.
func (s *QuotationService) ListSent(ctx context.Context, vendorID string) ([]domain.Quotation, error) {
	list, err := s.quotations.ListSent(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list sent quotations: %w", err)
	}
	return list, nil
}

// UpdateStatus marks a received quotation viewed or accepted.
func (s *QuotationService) UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Quotation, error) {
	q, err := s.quotations.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if !domain.IsCustomerSettableStatus(status) {
		return nil, apperrors.InvalidInput("status must be viewed or accepted")
	}

	if err := s.quotations.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	q.Status = status

	s.logger.InfoContext(ctx, "quotation status changed",
		slog.String("quotation_id", id),
		slog.String("status", status),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "quotation.status_changed", s.events.PublishQuotationStatusChanged(ctx, q))
	}
	broadcast(ctx, s.notifier, s.logger, q.VendorID, notify.Message{
		Kind:  notify.KindQuotationStatusChanged,
		Title: "Quotation " + status,
		Body:  fmt.Sprintf("Your quotation for %q was %s", q.RequirementTitle, status),
		Ref:   q.ID,
	})
	return q, nil
}
