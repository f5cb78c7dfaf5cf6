package repository

import (
	"context"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// MaxOpenRequirements caps the open-requirements board.
const MaxOpenRequirements = 50

// ServiceFilter narrows a catalog listing. Nil fields are ignored.
type ServiceFilter struct {
	Category *string
	Location *string
	Page     pagination.Params
}

// RequirementFilter narrows the open-requirements board.
type RequirementFilter struct {
	Category *string
	Location *string
}

// ReviewRepository persists service reviews.
type ReviewRepository interface {
	// Create inserts a review. A second review for the same service and
	// user yields an ErrConflict.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID returns the review or an ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ExistsForUser reports whether userID already reviewed serviceID.
	ExistsForUser(ctx context.Context, serviceID int64, userID string) (bool, error)

	// ListByService returns one page of a service's reviews, newest first,
	// and the total count.
	ListByService(ctx context.Context, serviceID int64, page pagination.Params) ([]domain.Review, int, error)

	// Update stores the rating, comment and updated_at of an existing review.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id string) error

	// IncrementHelpful bumps the helpful counter and returns the new value.
	IncrementHelpful(ctx context.Context, id string) (int, error)

	// RatingHistogram returns rating -> count for every review of serviceID.
	RatingHistogram(ctx context.Context, serviceID int64) (map[int]int, error)
}

// ServiceRepository persists the service catalog.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, filter ServiceFilter) ([]domain.Service, int, error)

	// ListCandidates returns every service projected for the ranker, in id order.
	ListCandidates(ctx context.Context) ([]domain.ServiceCandidate, error)

	// UpdateRating stores the denormalized average rating.
	UpdateRating(ctx context.Context, id int64, rating float64) error
}

// RequirementRepository persists customer requirements.
type RequirementRepository interface {
	Create(ctx context.Context, requirement *domain.Requirement) error
	GetByID(ctx context.Context, id string) (*domain.Requirement, error)

	// ListOpen returns at most MaxOpenRequirements open requirements, newest first.
	ListOpen(ctx context.Context, filter RequirementFilter) ([]domain.Requirement, error)

	// ListByCustomer returns every requirement of customerID, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Requirement, error)

	UpdateStatus(ctx context.Context, id, status string) (*domain.Requirement, error)
}

// QuotationRepository persists provider quotations.
type QuotationRepository interface {
	// Send spends one vendor credit, bumps the requirement's quotation count
	// and inserts the quotation in a single transaction. It returns the
	// vendor's remaining credits.
	Send(ctx context.Context, quotation *domain.Quotation) (int, error)

	// ExistsForVendor reports whether vendorID already quoted requirementID.
	ExistsForVendor(ctx context.Context, requirementID, vendorID string) (bool, error)

	ListReceived(ctx context.Context, customerID string) ([]domain.Quotation, error)
	ListSent(ctx context.Context, vendorID string) ([]domain.Quotation, error)

	// GetForCustomer returns the quotation only when customerID received it.
	GetForCustomer(ctx context.Context, id, customerID string) (*domain.Quotation, error)

	UpdateStatus(ctx context.Context, id, status string) error
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	BusinessType *string
	Location     *string
}

// UserRepository reads and edits marketplace accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// UpdateProfile applies the update and returns the stored user. A phone
	// number used by another account yields an ErrConflict.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)

	// AddCredits tops up a provider's quotation credits and returns the new balance.
	AddCredits(ctx context.Context, id string, amount int) (int, error)
}
