package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/pagination"
)

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var reviewColumns = []string{
	"id", "service_id", "user_id", "name", "rating", "comment",
	"helpful", "verified", "created_at", "updated_at",
}

func sampleReview() domain.Review {
	return domain.Review{
		ID:        "rev-1",
		ServiceID: 7,
		UserID:    "user-1",
		UserName:  "Asha",
		Rating:    4,
		Comment:   "quick and tidy",
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func reviewValues(rv domain.Review) []any {
	return []any{
		rv.ID, rv.ServiceID, rv.UserID, rv.UserName, rv.Rating, rv.Comment,
		rv.Helpful, rv.Verified, rv.CreatedAt, rv.UpdatedAt,
	}
}

// ─── Create ─────────────────────────────────────────────────────────────────

func TestReviewRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ServiceID, rv.UserID, rv.Rating, rv.Comment, rv.Helpful, rv.Verified, rv.CreatedAt, rv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), &rv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: reviewUniqueConstraint})

	err := repo.Create(context.Background(), &rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already reviewed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_DBError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectExec("INSERT INTO reviews").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &rv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
	assert.False(t, errors.Is(err, apperrors.ErrConflict))
}

// ─── GetByID ────────────────────────────────────────────────────────────────

func TestReviewRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectQuery("SELECT .+ FROM reviews r").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(reviewColumns).AddRow(reviewValues(rv)...))

	got, err := repo.GetByID(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, rv, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews r").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ─── ExistsForUser ──────────────────────────────────────────────────────────

func TestReviewRepository_ExistsForUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForUser(context.Background(), 7, "user-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─── ListByService ──────────────────────────────────────────────────────────

func TestReviewRepository_ListByService(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	first := sampleReview()
	second := sampleReview()
	second.ID, second.UserID, second.Rating = "rev-2", "user-2", 2

	rows := pgxmock.NewRows(append(reviewColumns, "total_count")).
		AddRow(append(reviewValues(first), 12)...).
		AddRow(append(reviewValues(second), 12)...)

	mock.ExpectQuery("SELECT .+ FROM reviews r .+ ORDER BY r.created_at DESC").
		WithArgs(int64(7), 2, 2).
		WillReturnRows(rows)

	got, total, err := repo.ListByService(context.Background(), 7, pagination.Params{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, got, 2)
	assert.Equal(t, "rev-2", got[1].ID)
	assert.Equal(t, "Asha", got[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByService_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews r").
		WithArgs(int64(9), pagination.DefaultLimit, 0).
		WillReturnRows(pgxmock.NewRows(append(reviewColumns, "total_count")))

	got, total, err := repo.ListByService(context.Background(), 9, pagination.Params{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

// ─── Update / Delete ────────────────────────────────────────────────────────

func TestReviewRepository_Update(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	rv.Rating, rv.Comment = 5, "even better"
	mock.ExpectExec("UPDATE reviews SET rating").
		WithArgs(5, "even better", rv.UpdatedAt, "rev-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), &rv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectExec("UPDATE reviews SET rating").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), &rv), apperrors.ErrNotFound)
}

func TestReviewRepository_Delete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "rev-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "rev-1"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─── IncrementHelpful ───────────────────────────────────────────────────────

func TestReviewRepository_IncrementHelpful(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("UPDATE reviews SET helpful = helpful").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows([]string{"helpful"}).AddRow(4))

	n, err := repo.IncrementHelpful(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_IncrementHelpful_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("UPDATE reviews SET helpful").
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.IncrementHelpful(context.Background(), "gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ─── RatingHistogram ────────────────────────────────────────────────────────

func TestReviewRepository_RatingHistogram(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT rating, COUNT\\(\\*\\) FROM reviews .+ GROUP BY rating").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"rating", "count"}).AddRow(5, 2).AddRow(3, 1))

	hist, err := repo.RatingHistogram(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 2, 3: 1}, hist)

	stats := domain.NewReviewStats(hist)
	assert.Equal(t, 4.3, stats.AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_RatingHistogram_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT rating").WillReturnError(errors.New("timeout"))

	_, err := repo.RatingHistogram(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating histogram")
}
