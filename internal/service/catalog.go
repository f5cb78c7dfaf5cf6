package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// CatalogEvents publishes catalog events.
type CatalogEvents interface {
	PublishServiceCreated(ctx context.Context, s *domain.Service) error
}

// CreateServiceInput holds the parameters for publishing a service.
type CreateServiceInput struct {
	Name         string
	Description  string
	Category     string
	Price        int64
	PriceUnit    string
	Location     string
	Availability []string
	Tags         []string
}

// CatalogService manages the providers' service catalog.
type CatalogService struct {
	repo   repository.ServiceRepository
	events CatalogEvents
	logger *slog.Logger
}

// NewCatalogService creates a catalog service. events may be nil.
func NewCatalogService(repo repository.ServiceRepository, events CatalogEvents, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, events: events, logger: logger}
}

// List returns a filtered page of the catalog.
func (s *CatalogService) List(ctx context.Context, filter repository.ServiceFilter) (pagination.Page[domain.Service], error) {
	if filter.Category != nil && !domain.IsValidCategory(*filter.Category) {
		return pagination.Page[domain.Service]{}, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", *filter.Category))
	}

	services, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[domain.Service]{}, fmt.Errorf("list services: %w", err)
	}
	return pagination.NewPage(services, total, filter.Page), nil
}

// Get returns one service.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("service id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// Create publishes a new service owned by providerID.
func (s *CatalogService) Create(ctx context.Context, providerID string, input *CreateServiceInput) (*domain.Service, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	unit := input.PriceUnit
	if unit == "" {
		unit = domain.PriceUnitHourly
	}
	if !domain.IsValidPriceUnit(unit) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown price unit %q", unit))
	}
	availability := input.Availability
	if len(availability) == 0 {
		availability = []string{"weekdays"}
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	svc := &domain.Service{
		Name:         input.Name,
		Description:  input.Description,
		ProviderID:   providerID,
		Category:     input.Category,
		Price:        input.Price,
		PriceUnit:    unit,
		Location:     input.Location,
		Availability: availability,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.InfoContext(ctx, "service created",
		slog.Int64("service_id", svc.ID),
		slog.String("provider_id", providerID),
		slog.String("category", svc.Category),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "service.created", s.events.PublishServiceCreated(ctx, svc))
	}
	return svc, nil
}
