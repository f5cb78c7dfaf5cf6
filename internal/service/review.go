package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/notify"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// ReviewEvents publishes review lifecycle events.
type ReviewEvents interface {
	PublishReviewCreated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error
	PublishReviewUpdated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error
	PublishReviewDeleted(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ServiceID int64
	UserID    string
	Rating    int
	Comment   string
}

// UpdateReviewInput is a partial update. Nil fields are left as they are.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewList is one page of a service's reviews with the service's statistics.
type ReviewList struct {
	Reviews    []domain.Review     `json:"reviews"`
	Stats      *domain.ReviewStats `json:"stats"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
}

// ReviewService implements review business rules. Every mutation returns
// statistics recomputed from storage.
type ReviewService struct {
	reviews  repository.ReviewRepository
	services repository.ServiceRepository
	events   ReviewEvents
	notifier notify.Broadcaster
	logger   *slog.Logger
}

// NewReviewService creates a review service. events may be nil.
func NewReviewService(
	reviews repository.ReviewRepository,
	services repository.ServiceRepository,
	events ReviewEvents,
	notifier notify.Broadcaster,
	logger *slog.Logger,
) *ReviewService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ReviewService{
		reviews:  reviews,
		services: services,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns a page of reviews for serviceID, newest first, and the
// service's statistics.
func (s *ReviewService) List(ctx context.Context, serviceID int64, page pagination.Params) (*ReviewList, error) {
	if serviceID <= 0 {
		return nil, apperrors.InvalidInput("service id must be positive")
	}

	reviews, total, err := s.reviews.ListByService(ctx, serviceID, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	stats, err := s.Stats(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPage(reviews, total, page)
	return &ReviewList{
		Reviews:    p.Items,
		Stats:      stats,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}, nil
}

// Stats aggregates every review of serviceID.
func (s *ReviewService) Stats(ctx context.Context, serviceID int64) (*domain.ReviewStats, error) {
	hist, err := s.reviews.RatingHistogram(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	return domain.NewReviewStats(hist), nil
}

// Create stores a verified review. A user may review a service once.
func (s *ReviewService) Create(ctx context.Context, input *CreateReviewInput) (*domain.Review, *domain.ReviewStats, error) {
	if input.ServiceID <= 0 {
		return nil, nil, apperrors.InvalidInput("service id must be positive")
	}
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, nil, apperrors.InvalidInput("comment is required")
	}

	svc, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, nil, err
	}

	exists, err := s.reviews.ExistsForUser(ctx, input.ServiceID, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("create review: %w", err)
	}
	if exists {
		return nil, nil, apperrors.Conflict("you have already reviewed this service")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ServiceID: input.ServiceID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, nil, fmt.Errorf("create review: %w", err)
	}

	stats, err := s.refreshStats(ctx, review.ServiceID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.Int64("service_id", review.ServiceID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "review.created", s.events.PublishReviewCreated(ctx, review, stats))
	}
	broadcast(ctx, s.notifier, s.logger, svc.ProviderID, notify.Message{
		Kind:  notify.KindReviewReceived,
		Title: "New review",
		Body:  fmt.Sprintf("%s received a %d-star review", svc.Name, review.Rating),
		Ref:   review.ID,
	})

	return review, stats, nil
}

// Update revises the caller's own review.
func (s *ReviewService) Update(ctx context.Context, id, userID string, input *UpdateReviewInput) (*domain.Review, *domain.ReviewStats, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !review.IsOwnedBy(userID) {
		return nil, nil, apperrors.Forbidden("you can only update your own reviews")
	}
	if err := review.Revise(input.Rating, input.Comment, time.Now().UTC()); err != nil {
		return nil, nil, err
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, nil, fmt.Errorf("update review: %w", err)
	}

	stats, err := s.refreshStats(ctx, review.ServiceID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "review.updated", s.events.PublishReviewUpdated(ctx, review, stats))
	}
	return review, stats, nil
}

// Delete removes the caller's own review.
func (s *ReviewService) Delete(ctx context.Context, id, userID string) (*domain.ReviewStats, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.IsOwnedBy(userID) {
		return nil, apperrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}

	stats, err := s.refreshStats(ctx, review.ServiceID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", id),
		slog.Int64("service_id", review.ServiceID),
	)

	if s.events != nil {
		logPublishError(ctx, s.logger, "review.deleted", s.events.PublishReviewDeleted(ctx, review, stats))
	}
	return stats, nil
}

// MarkHelpful records one helpful vote and returns the new count. Votes are
// not deduplicated per user.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) (int, error) {
	n, err := s.reviews.IncrementHelpful(ctx, id)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// refreshStats recomputes a service's statistics and stores the new average
// on the catalog entry.
func (s *ReviewService) refreshStats(ctx context.Context, serviceID int64) (*domain.ReviewStats, error) {
	stats, err := s.Stats(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.services.UpdateRating(ctx, serviceID, stats.AverageRating); err != nil {
		s.logger.WarnContext(ctx, "failed to store service rating",
			slog.Int64("service_id", serviceID),
			slog.String("error", err.Error()),
		)
	}
	return stats, nil
}
