package http

import (
	"log/slog"
	"net/http"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
)

// UserHandler handles the caller's own account.
type UserHandler struct {
	service UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// UpdateProfileRequest lists the editable profile fields. Other fields in the
// body are ignored.
type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,phone"`
	BusinessType *string `json:"businessType" validate:"omitempty,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
}

// ProfileResponse is returned after a profile update.
type ProfileResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// BuyCreditsRequest is the JSON request body for a credit purchase.
type BuyCreditsRequest struct {
	Amount int `json:"amount" validate:"required,gt=0,lte=1000"`
}

// CreditsResponse reports the balance after a purchase.
type CreditsResponse struct {
	Message string `json:"message"`
	Credits int    `json:"credits"`
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), callerID(r), repository.ProfileUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		BusinessType: req.BusinessType,
		Location:     req.Location,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ProfileResponse{Message: "Profile updated successfully", User: user})
}

// BuyCredits handles POST /api/v1/users/me/credits
func (h *UserHandler) BuyCredits(w http.ResponseWriter, r *http.Request) {
	var req BuyCreditsRequest
	if !decode(w, r, &req) {
		return
	}

	credits, err := h.service.BuyCredits(r.Context(), callerID(r), req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, CreditsResponse{Message: "Credits purchased successfully", Credits: credits})
}
