package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
)

// QuotationHandler handles HTTP requests for quotations.
type QuotationHandler struct {
	service QuotationService
	logger  *slog.Logger
}

// NewQuotationHandler creates a new quotation HTTP handler.
func NewQuotationHandler(svc QuotationService, logger *slog.Logger) *QuotationHandler {
	return &QuotationHandler{service: svc, logger: logger}
}

// SendQuotationRequest is the JSON request body for quoting a requirement.
type SendQuotationRequest struct {
	RequirementID string `json:"requirementId" validate:"required,uuid"`
	Price         int64  `json:"price" validate:"required,gt=0"`
	Description   string `json:"description" validate:"required,notblank,max=5000"`
	Timeline      string `json:"timeline" validate:"required,notblank,max=255"`
}

// SendQuotationResponse carries the stored quotation and the vendor's balance.
type SendQuotationResponse struct {
	Quotation        *domain.Quotation `json:"quotation"`
	RemainingCredits int               `json:"remainingCredits"`
}

// SendQuotation handles POST /api/v1/quotations
func (h *QuotationHandler) SendQuotation(w http.ResponseWriter, r *http.Request) {
	var req SendQuotationRequest
	if !decode(w, r, &req) {
		return
	}

	q, remaining, err := h.service.Send(r.Context(), callerID(r), &service.SendQuotationInput{
		RequirementID: req.RequirementID,
		Price:         req.Price,
		Description:   req.Description,
		Timeline:      req.Timeline,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, SendQuotationResponse{Quotation: q, RemainingCredits: remaining})
}

// ListReceived handles GET /api/v1/quotations/received
func (h *QuotationHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListReceived(r.Context(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, list)
}

// ListSent handles GET /api/v1/quotations/sent
func (h *QuotationHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSent(r.Context(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, list)
}

// UpdateStatus handles PATCH /api/v1/quotations/{id}/status
func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "quotation id", chi.URLParam(r, "id"))
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
