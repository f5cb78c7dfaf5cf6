// Package http exposes the marketplace services over a chi router.
package http

import (
	"context"
	"net/http"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/httputil"
	"github.com/KiranKumarPM/servon-1/pkg/middleware"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
	"github.com/KiranKumarPM/servon-1/pkg/validator"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// ReviewService is the review use-case surface the handlers call.
type ReviewService interface {
	List(ctx context.Context, serviceID int64, page pagination.Params) (*service.ReviewList, error)
	Stats(ctx context.Context, serviceID int64) (*domain.ReviewStats, error)
	Create(ctx context.Context, input *service.CreateReviewInput) (*domain.Review, *domain.ReviewStats, error)
	Update(ctx context.Context, id, userID string, input *service.UpdateReviewInput) (*domain.Review, *domain.ReviewStats, error)
	Delete(ctx context.Context, id, userID string) (*domain.ReviewStats, error)
	MarkHelpful(ctx context.Context, id string) (int, error)
}

// CatalogService is the catalog use-case surface.
type CatalogService interface {
	List(ctx context.Context, filter repository.ServiceFilter) (pagination.Page[domain.Service], error)
	Get(ctx context.Context, id int64) (*domain.Service, error)
	Create(ctx context.Context, providerID string, input *service.CreateServiceInput) (*domain.Service, error)
}

// RequirementService is the requirement board surface.
type RequirementService interface {
	Create(ctx context.Context, customerID string, input *service.CreateRequirementInput) (*domain.Requirement, error)
	ListOpen(ctx context.Context, filter repository.RequirementFilter) ([]domain.Requirement, error)
	ListMine(ctx context.Context, customerID string) ([]domain.Requirement, error)
	UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Requirement, error)
}

// QuotationService is the quotation exchange surface.
type QuotationService interface {
	Send(ctx context.Context, vendorID string, input *service.SendQuotationInput) (*domain.Quotation, int, error)
	ListReceived(ctx context.Context, customerID string) ([]domain.Quotation, error)
	ListSent(ctx context.Context, vendorID string) ([]domain.Quotation, error)
	UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Quotation, error)
}

// AdvisorService is the matching engine surface.
type AdvisorService interface {
	Recommend(ctx context.Context, requirementID string) (*service.Recommendations, error)
	Analyze(description string) (domain.Analysis, error)
	EstimateCost(requirements, serviceType string) (domain.CostEstimate, error)
	Personalize(ctx context.Context, requirements, userID string) (*service.PersonalizedReply, error)
}

// UserService is the account surface.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*domain.User, error)
	BuyCredits(ctx context.Context, userID string, amount int) (int, error)
}

// decode reads and validates a JSON body into dst. On failure it writes a
// 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// callerID returns the authenticated user's id. Routes using it are mounted
// behind middleware.Authenticate.
func callerID(r *http.Request) string {
	if p := middleware.PrincipalFromContext(r.Context()); p != nil {
		return p.UserID
	}
	return ""
}

func optionalQuery(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}
