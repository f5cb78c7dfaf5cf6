package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/middleware"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// ============================================================================
// Mock Services
// ============================================================================

type mockReviewService struct{ mock.Mock }

func (m *mockReviewService) List(ctx context.Context, serviceID int64, page pagination.Params) (*service.ReviewList, error) {
	args := m.Called(ctx, serviceID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewList), args.Error(1)
}

func (m *mockReviewService) Stats(ctx context.Context, serviceID int64) (*domain.ReviewStats, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewStats), args.Error(1)
}

func (m *mockReviewService) Create(ctx context.Context, input *service.CreateReviewInput) (*domain.Review, *domain.ReviewStats, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Review), args.Get(1).(*domain.ReviewStats), args.Error(2)
}

func (m *mockReviewService) Update(ctx context.Context, id, userID string, input *service.UpdateReviewInput) (*domain.Review, *domain.ReviewStats, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Review), args.Get(1).(*domain.ReviewStats), args.Error(2)
}

func (m *mockReviewService) Delete(ctx context.Context, id, userID string) (*domain.ReviewStats, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewStats), args.Error(1)
}

func (m *mockReviewService) MarkHelpful(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) List(ctx context.Context, filter repository.ServiceFilter) (pagination.Page[domain.Service], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(pagination.Page[domain.Service]), args.Error(1)
}

func (m *mockCatalogService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockCatalogService) Create(ctx context.Context, providerID string, input *service.CreateServiceInput) (*domain.Service, error) {
	args := m.Called(ctx, providerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type mockRequirementService struct{ mock.Mock }

func (m *mockRequirementService) Create(ctx context.Context, customerID string, input *service.CreateRequirementInput) (*domain.Requirement, error) {
	args := m.Called(ctx, customerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requirement), args.Error(1)
}

func (m *mockRequirementService) ListOpen(ctx context.Context, filter repository.RequirementFilter) ([]domain.Requirement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requirement), args.Error(1)
}

func (m *mockRequirementService) ListMine(ctx context.Context, customerID string) ([]domain.Requirement, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requirement), args.Error(1)
}

func (m *mockRequirementService) UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Requirement, error) {
	args := m.Called(ctx, id, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requirement), args.Error(1)
}

type mockQuotationService struct{ mock.Mock }

func (m *mockQuotationService) Send(ctx context.Context, vendorID string, input *service.SendQuotationInput) (*domain.Quotation, int, error) {
	args := m.Called(ctx, vendorID, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Quotation), args.Int(1), args.Error(2)
}

func (m *mockQuotationService) ListReceived(ctx context.Context, customerID string) ([]domain.Quotation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *mockQuotationService) ListSent(ctx context.Context, vendorID string) ([]domain.Quotation, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *mockQuotationService) UpdateStatus(ctx context.Context, id, customerID, status string) (*domain.Quotation, error) {
	args := m.Called(ctx, id, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

type mockAdvisorService struct{ mock.Mock }

func (m *mockAdvisorService) Recommend(ctx context.Context, requirementID string) (*service.Recommendations, error) {
	args := m.Called(ctx, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Recommendations), args.Error(1)
}

func (m *mockAdvisorService) Analyze(description string) (domain.Analysis, error) {
	args := m.Called(description)
	return args.Get(0).(domain.Analysis), args.Error(1)
}

func (m *mockAdvisorService) EstimateCost(requirements, serviceType string) (domain.CostEstimate, error) {
	args := m.Called(requirements, serviceType)
	return args.Get(0).(domain.CostEstimate), args.Error(1)
}

func (m *mockAdvisorService) Personalize(ctx context.Context, requirements, userID string) (*service.PersonalizedReply, error) {
	args := m.Called(ctx, requirements, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PersonalizedReply), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) BuyCredits(ctx context.Context, userID string, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

const (
	customerToken = "customer-token"
	providerToken = "provider-token"
	customerID    = "cust-1"
	providerID    = "prov-1"

	reviewID        = "0b4d5c2e-7f61-4a8e-b3c9-5e2a1d0f6c71"
	missingReviewID = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	requirementUUID = "6f1c2f4e-8d0a-4a55-9c1e-0b7f1d2a3c4b"
	quotationID     = "3a2b1c0d-9e8f-4a7b-a6c5-d4e3f2a1b0c9"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func stubValidator(token string) (*middleware.Principal, error) {
	switch token {
	case customerToken:
		return &middleware.Principal{UserID: customerID, Name: "Asha", Role: domain.UserTypeCustomer}, nil
	case providerToken:
		return &middleware.Principal{UserID: providerID, Name: "Ravi", Role: domain.UserTypeProvider}, nil
	}
	return nil, errors.New("bad token")
}

type testServices struct {
	reviews      *mockReviewService
	catalog      *mockCatalogService
	requirements *mockRequirementService
	quotations   *mockQuotationService
	advisor      *mockAdvisorService
	users        *mockUserService
}

func newTestServices() *testServices {
	return &testServices{
		reviews:      new(mockReviewService),
		catalog:      new(mockCatalogService),
		requirements: new(mockRequirementService),
		quotations:   new(mockQuotationService),
		advisor:      new(mockAdvisorService),
		users:        new(mockUserService),
	}
}

func (s *testServices) router(opts Options) http.Handler {
	if opts.Validate == nil {
		opts.Validate = stubValidator
	}
	return NewRouter(Services{
		Reviews:      s.reviews,
		Catalog:      s.catalog,
		Requirements: s.requirements,
		Quotations:   s.quotations,
		Advisor:      s.advisor,
		Users:        s.users,
	}, opts, testLogger())
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error, "unexpected error envelope: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
