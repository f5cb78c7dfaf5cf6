package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	ServiceID int64  `json:"serviceId" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,notblank,max=2000"`
}

// UpdateReviewRequest is the JSON request body for revising a review.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// --- Response DTOs ---

// ReviewMutationResponse carries a review and the service's fresh statistics.
type ReviewMutationResponse struct {
	Review  *domain.Review      `json:"review"`
	Stats   *domain.ReviewStats `json:"stats"`
	Message string              `json:"message"`
}

// ReviewDeletedResponse is returned after a review is removed.
type ReviewDeletedResponse struct {
	Message string              `json:"message"`
	Stats   *domain.ReviewStats `json:"stats"`
}

// HelpfulResponse reports the new helpful count.
type HelpfulResponse struct {
	Message      string `json:"message"`
	HelpfulCount int    `json:"helpfulCount"`
}

// --- Handlers ---

// ListReviews handles GET /api/v1/reviews/service/{serviceId}
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := httputil.ParseID(w, r, "service id", chi.URLParam(r, "serviceId"))
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), serviceID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, list)
}

// GetStats handles GET /api/v1/reviews/service/{serviceId}/stats
func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := httputil.ParseID(w, r, "service id", chi.URLParam(r, "serviceId"))
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), serviceID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, stats)
}

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decode(w, r, &req) {
		return
	}

	review, stats, err := h.service.Create(r.Context(), &service.CreateReviewInput{
		ServiceID: req.ServiceID,
		UserID:    callerID(r),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, ReviewMutationResponse{
		Review:  review,
		Stats:   stats,
		Message: "Review added successfully",
	})
}

// UpdateReview handles PUT /api/v1/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "review id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !decode(w, r, &req) {
		return
	}

	review, stats, err := h.service.Update(r.Context(), id.String(), callerID(r), &service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ReviewMutationResponse{
		Review:  review,
		Stats:   stats,
		Message: "Review updated successfully",
	})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "review id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	stats, err := h.service.Delete(r.Context(), id.String(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ReviewDeletedResponse{
		Message: "Review deleted successfully",
		Stats:   stats,
	})
}

// MarkHelpful handles POST /api/v1/reviews/{id}/helpful
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "review id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	n, err := h.service.MarkHelpful(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, HelpfulResponse{
		Message:      "Review marked as helpful",
		HelpfulCount: n,
	})
}
