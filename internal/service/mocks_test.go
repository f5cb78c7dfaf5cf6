package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/notify"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ExistsForUser(ctx context.Context, serviceID int64, userID string) (bool, error) {
	args := m.Called(ctx, serviceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) ListByService(ctx context.Context, serviceID int64, page pagination.Params) ([]domain.Review, int, error) {
	args := m.Called(ctx, serviceID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepository) IncrementHelpful(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepository) RatingHistogram(ctx context.Context, serviceID int64) (map[int]int, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

// --- Mock Service Repository ---

type mockServiceRepository struct {
	mock.Mock
}

func (m *mockServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockServiceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]domain.Service, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Service), args.Int(1), args.Error(2)
}

func (m *mockServiceRepository) ListCandidates(ctx context.Context) ([]domain.ServiceCandidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceCandidate), args.Error(1)
}

func (m *mockServiceRepository) UpdateRating(ctx context.Context, id int64, rating float64) error {
	return m.Called(ctx, id, rating).Error(0)
}

// --- Mock Requirement Repository ---

type mockRequirementRepository struct {
	mock.Mock
}

func (m *mockRequirementRepository) Create(ctx context.Context, q *domain.Requirement) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockRequirementRepository) GetByID(ctx context.Context, id string) (*domain.Requirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requirement), args.Error(1)
}

func (m *mockRequirementRepository) ListOpen(ctx context.Context, filter repository.RequirementFilter) ([]domain.Requirement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requirement), args.Error(1)
}

func (m *mockRequirementRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Requirement, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requirement), args.Error(1)
}

func (m *mockRequirementRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Requirement, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requirement), args.Error(1)
}

// --- Mock Quotation Repository ---

type mockQuotationRepository struct {
	mock.Mock
}

func (m *mockQuotationRepository) Send(ctx context.Context, q *domain.Quotation) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockQuotationRepository) ExistsForVendor(ctx context.Context, requirementID, vendorID string) (bool, error) {
	args := m.Called(ctx, requirementID, vendorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuotationRepository) ListReceived(ctx context.Context, customerID string) ([]domain.Quotation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *mockQuotationRepository) ListSent(ctx context.Context, vendorID string) ([]domain.Quotation, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *mockQuotationRepository) GetForCustomer(ctx context.Context, id, customerID string) (*domain.Quotation, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *mockQuotationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, update repository.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) AddCredits(ctx context.Context, id string, amount int) (int, error) {
	args := m.Called(ctx, id, amount)
	return args.Int(0), args.Error(1)
}

// --- Mock events and notices ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishServiceCreated(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockEvents) PublishReviewCreated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return m.Called(ctx, r, stats).Error(0)
}

func (m *mockEvents) PublishReviewUpdated(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return m.Called(ctx, r, stats).Error(0)
}

func (m *mockEvents) PublishReviewDeleted(ctx context.Context, r *domain.Review, stats *domain.ReviewStats) error {
	return m.Called(ctx, r, stats).Error(0)
}

func (m *mockEvents) PublishRequirementCreated(ctx context.Context, q *domain.Requirement) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockEvents) PublishRequirementStatusChanged(ctx context.Context, q *domain.Requirement) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockEvents) PublishQuotationSent(ctx context.Context, q *domain.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockEvents) PublishQuotationStatusChanged(ctx context.Context, q *domain.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

type sentNotice struct {
	channel string
	msg     notify.Message
}

type recordingBroadcaster struct {
	sent []sentNotice
	err  error
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, channel string, msg notify.Message) error {
	b.sent = append(b.sent, sentNotice{channel: channel, msg: msg})
	return b.err
}
