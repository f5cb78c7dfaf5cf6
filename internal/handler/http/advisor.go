package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
)

// AdvisorHandler handles the /ai endpoints.
type AdvisorHandler struct {
	service AdvisorService
	logger  *slog.Logger
}

// NewAdvisorHandler creates a new advisor HTTP handler.
func NewAdvisorHandler(svc AdvisorService, logger *slog.Logger) *AdvisorHandler {
	return &AdvisorHandler{service: svc, logger: logger}
}

// AnalyzeRequest is the JSON request body for requirement analysis.
type AnalyzeRequest struct {
	Description string `json:"description"`
}

// AnalyzeResponse echoes the description next to its analysis.
type AnalyzeResponse struct {
	Analysis    domain.Analysis `json:"analysis"`
	Description string          `json:"description"`
}

// PersonalizeRequest is the JSON request body for a personalized reply.
type PersonalizeRequest struct {
	Requirements string `json:"requirements"`
	UserID       string `json:"userId"`
}

// EstimateRequest is the JSON request body for cost estimation.
type EstimateRequest struct {
	Requirements string `json:"requirements"`
	ServiceType  string `json:"serviceType"`
}

// EstimateResponse echoes the service type next to its estimate.
type EstimateResponse struct {
	Estimate    domain.CostEstimate `json:"estimate"`
	ServiceType string              `json:"serviceType"`
}

// Recommendations handles GET /api/v1/ai/recommendations/{requirementId}
func (h *AdvisorHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "requirement id", chi.URLParam(r, "requirementId"))
	if !ok {
		return
	}

	recs, err := h.service.Recommend(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, recs)
}

// Analyze handles POST /api/v1/ai/analyze
func (h *AdvisorHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	analysis, err := h.service.Analyze(req.Description)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, AnalyzeResponse{Analysis: analysis, Description: req.Description})
}

// PersonalizedResponse handles POST /api/v1/ai/personalized-response
func (h *AdvisorHandler) PersonalizedResponse(w http.ResponseWriter, r *http.Request) {
	var req PersonalizeRequest
	if !decode(w, r, &req) {
		return
	}

	reply, err := h.service.Personalize(r.Context(), req.Requirements, req.UserID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, reply)
}

// EstimateCost handles POST /api/v1/ai/estimate-cost
func (h *AdvisorHandler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !decode(w, r, &req) {
		return
	}

	estimate, err := h.service.EstimateCost(req.Requirements, req.ServiceType)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, EstimateResponse{Estimate: estimate, ServiceType: req.ServiceType})
}
