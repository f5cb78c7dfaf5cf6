package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

// RequirementEvents publishes requirement events.
type RequirementEvents interface {
	PublishRequirementCreated(ctx context.Context, q *domain.Requirement) error
	PublishRequirementStatusChanged(ctx context.Context, q *domain.Requirement) error
}

// CreateRequirementInput holds the parameters for posting a requirement.
type CreateRequirementInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Budget      *int64
}

// RequirementService manages the customers' requirement board.
type RequirementService struct {
	repo   repository.RequirementRepository
	events RequirementEvents
	logger *slog.Logger
}

// NewRequirementService creates a requirement service. events may be nil.
func NewRequirementService(repo repository.RequirementRepository, events RequirementEvents, logger *slog.Logger) *RequirementService {
	return &RequirementService{repo: repo, events: events, logger: logger}
}

// Create posts an open requirement for customerID.
func (s *RequirementService) Create(ctx context.Context, customerID string, input *CreateRequirementInput) (*domain.Requirement, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.InvalidInput("description is required")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.Budget != nil && *input.Budget < 0 {
		return nil, apperrors.InvalidInput("budget must not be negative")
	}

	now := time.Now().UTC()
	q := &domain.Requirement{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Budget:      input.Budget,
		Status:      domain.RequirementStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create requirement: %w", err)
	}

	s.logger.InfoContext(ctx, "requirement created",
		slog.String("requirement_id", q.ID),
		slog.String("customer_id", customerID),
		slog.String("category", q.Category),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "requirement.created", s.events.PublishRequirementCreated(ctx, q))
	}
	return q, nil
}

// ListOpen returns the newest open requirements.
func (s *RequirementService) ListOpen(ctx context.Context, filter repository.RequirementFilter) ([]domain.Requirement, error) {
	list, err := s.repo.ListOpen(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list open requirements: %w", err)
	}
	return list, nil
}

// ListMine returns every requirement customerID posted.
func (s *RequirementService) ListMine(ctx context.Context, customerID string) ([]domain.Requirement, error) {
	list, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer requirements: %w", err)
	}
	return list, nil
}

// UpdateStatus opens or closes the caller's own requirement. Requirements
// of other customers are reported as not found.
func (s *RequirementService) UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Requirement, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.CustomerID != customerID {
		return nil, apperrors.NotFound("requirement", id)
	}
	if !domain.IsValidRequirementStatus(status) {
		return nil, apperrors.InvalidInput("status must be open or closed")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update requirement status: %w", err)
	}

	s.logger.InfoContext(ctx, "requirement status changed",
		slog.String("requirement_id", id),
		slog.String("status", status),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "requirement.status_changed", s.events.PublishRequirementStatusChanged(ctx, updated))
	}
	return updated, nil
}
