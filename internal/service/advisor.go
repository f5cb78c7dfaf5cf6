package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/matching"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

// Recommendations pairs a requirement with its best-matching services.
type Recommendations struct {
	Requirement     *domain.Requirement     `json:"requirement"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// UserSummary is the public part of a user shown next to generated text.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PersonalizedReply is a generated reply addressed to a user.
type PersonalizedReply struct {
	Response string      `json:"response"`
	User     UserSummary `json:"user"`
}

// AdvisorService exposes the matching engine over stored data. The analysis
// itself is pure and recomputed per call.
type AdvisorService struct {
	requirements repository.RequirementRepository
	services     repository.ServiceRepository
	users        repository.UserRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewAdvisorService creates an advisor service.
func NewAdvisorService(
	requirements repository.RequirementRepository,
	services repository.ServiceRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *AdvisorService {
	return &AdvisorService{
		requirements: requirements,
		services:     services,
		users:        users,
		logger:       logger,
		now:          time.Now,
	}
}

// Recommend ranks the whole catalog against a stored requirement.
func (s *AdvisorService) Recommend(ctx context.Context, requirementID string) (*Recommendations, error) {
	requirement, err := s.requirements.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.services.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	recs := matching.Recommend(requirement.Description, candidates, matching.DefaultRecommendationLimit)

	s.logger.DebugContext(ctx, "recommendations computed",
		slog.String("requirement_id", requirementID),
		slog.Int("candidates", len(candidates)),
		slog.Int("returned", len(recs)),
	)

	return &Recommendations{Requirement: requirement, Recommendations: recs}, nil
}

// Analyze derives keywords, urgency and complexity from free text.
func (s *AdvisorService) Analyze(description string) (domain.Analysis, error) {
	if strings.TrimSpace(description) == "" {
		return domain.Analysis{}, apperrors.InvalidInput("description is required")
	}
	return matching.Analyze(description), nil
}

// EstimateCost prices requirements for a service category.
func (s *AdvisorService) EstimateCost(requirements, serviceType string) (domain.CostEstimate, error) {
	if strings.TrimSpace(requirements) == "" || strings.TrimSpace(serviceType) == "" {
		return domain.CostEstimate{}, apperrors.InvalidInput("requirements and service type are required")
	}
	return matching.EstimateCost(requirements, serviceType), nil
}

// Personalize writes a greeting reply to userID about requirements.
func (s *AdvisorService) Personalize(ctx context.Context, requirements, userID string) (*PersonalizedReply, error) {
	if strings.TrimSpace(requirements) == "" || strings.TrimSpace(userID) == "" {
		return nil, apperrors.InvalidInput("requirements and user id are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PersonalizedReply{
		Response: matching.PersonalizedResponse(requirements, user.Name, s.now()),
		User:     UserSummary{ID: user.ID, Name: user.Name},
	}, nil
}
