package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// CatalogHandler handles HTTP requests for the service catalog.
type CatalogHandler struct {
	service CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// CreateServiceRequest is the JSON request body for publishing a service.
type CreateServiceRequest struct {
	Name         string   `json:"name" validate:"required,notblank,max=255"`
	Description  string   `json:"description" validate:"max=5000"`
	Category     string   `json:"category" validate:"required,oneof=plumbing electrical carpentry painting cleaning other"`
	Price        int64    `json:"price" validate:"gte=0"`
	PriceUnit    string   `json:"priceUnit" validate:"omitempty,oneof=hourly fixed daily"`
	Location     string   `json:"location" validate:"max=255"`
	Availability []string `json:"availability" validate:"omitempty,dive,notblank"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=50"`
}

// ListServices handles GET /api/v1/services?category=&location=&page=&limit=
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), repository.ServiceFilter{
		Category: optionalQuery(r, "category"),
		Location: optionalQuery(r, "location"),
		Page:     pagination.FromRequest(r),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, page)
}

// GetService handles GET /api/v1/services/{id}
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "service id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	svc, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, svc)
}

// CreateService handles POST /api/v1/services
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if !decode(w, r, &req) {
		return
	}

	svc, err := h.service.Create(r.Context(), callerID(r), &service.CreateServiceInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		PriceUnit:    req.PriceUnit,
		Location:     req.Location,
		Availability: req.Availability,
		Tags:         req.Tags,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, svc)
}
