package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// UserService manages the caller's own account.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Profile returns the account of userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile edits name, phone, business type and location.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*domain.User, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.InvalidInput("name must not be empty")
	}
	if update.Phone != nil && !phonePattern.MatchString(*update.Phone) {
		return nil, apperrors.InvalidInput("invalid phone number format")
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.IsProvider() && update.Location != nil && strings.TrimSpace(*update.Location) == "" {
		return nil, apperrors.InvalidInput("location is required for service providers")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))
	return user, nil
}

// BuyCredits tops up a provider's quotation credits.
func (s *UserService) BuyCredits(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 1 {
		return 0, apperrors.InvalidInput("invalid credit amount")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.IsProvider() {
		return 0, apperrors.Forbidden("only providers can buy credits")
	}

	credits, err := s.repo.AddCredits(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("buy credits: %w", err)
	}

	s.logger.InfoContext(ctx, "credits purchased",
		slog.String("user_id", userID),
		slog.Int("amount", amount),
		slog.Int("balance", credits),
	)
	return credits, nil
}
