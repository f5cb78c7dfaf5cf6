package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
)

// RequirementHandler handles HTTP requests for the requirement board.
type RequirementHandler struct {
	service RequirementService
	logger  *slog.Logger
}

// NewRequirementHandler creates a new requirement HTTP handler.
func NewRequirementHandler(svc RequirementService, logger *slog.Logger) *RequirementHandler {
	return &RequirementHandler{service: svc, logger: logger}
}

// CreateRequirementRequest is the JSON request body for posting a requirement.
type CreateRequirementRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank,max=5000"`
	Category    string `json:"category" validate:"required,oneof=plumbing electrical carpentry painting cleaning other"`
	Location    string `json:"location" validate:"required,notblank,max=255"`
	Budget      *int64 `json:"budget" validate:"omitempty,gte=0"`
}

// StatusRequest is the JSON request body for status transitions.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateRequirement handles POST /api/v1/requirements
func (h *RequirementHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req CreateRequirementRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.service.Create(r.Context(), callerID(r), &service.CreateRequirementInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Budget:      req.Budget,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, q)
}

// ListOpen handles GET /api/v1/requirements?category=&location=
func (h *RequirementHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListOpen(r.Context(), repository.RequirementFilter{
		Category: optionalQuery(r, "category"),
		Location: optionalQuery(r, "location"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, list)
}

// ListMine handles GET /api/v1/requirements/my
func (h *RequirementHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMine(r.Context(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, list)
}

// UpdateStatus handles PATCH /api/v1/requirements/{id}/status
func (h *RequirementHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "requirement id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.service.UpdateStatus(r.Context(), id.String(), callerID(r), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, q)
}
