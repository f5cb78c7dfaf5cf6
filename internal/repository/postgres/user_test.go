package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

var userColumnNames = []string{
	"id", "email", "phone", "name", "user_type", "business_type", "location",
	"is_verified", "credits", "created_at",
}

func sampleProvider() domain.User {
	return domain.User{
		ID:           "prov-1",
		Email:        "ravi@example.com",
		Phone:        "+919876543210",
		Name:         "Ravi",
		UserType:     domain.UserTypeProvider,
		BusinessType: "plumber",
		Location:     "Pune",
		IsVerified:   true,
		Credits:      intPtr(5),
		CreatedAt:    now,
	}
}

func userValues(u domain.User) []any {
	return []any{
		u.ID, u.Email, u.Phone, u.Name, u.UserType, u.BusinessType, u.Location,
		u.IsVerified, u.Credits, u.CreatedAt,
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleProvider()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1").
		WithArgs("prov-1").
		WillReturnRows(pgxmock.NewRows(userColumnNames).AddRow(userValues(u)...))

	got, err := repo.GetByID(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, u, *got)
	assert.True(t, got.IsProvider())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleProvider()
	u.Location = "Mumbai"
	update := repository.ProfileUpdate{Location: strPtr("Mumbai")}

	mock.ExpectQuery("UPDATE users SET .+ RETURNING").
		WithArgs(update.Name, update.Phone, update.BusinessType, update.Location, "prov-1").
		WillReturnRows(pgxmock.NewRows(userColumnNames).AddRow(userValues(u)...))

	got, err := repo.UpdateProfile(context.Background(), "prov-1", update)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_PhoneTaken(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("UPDATE users SET").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: userPhoneConstraint})

	_, err := repo.UpdateProfile(context.Background(), "prov-1", repository.ProfileUpdate{Phone: strPtr("+919000000000")})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "phone number already in use")
}

func TestUserRepository_AddCredits(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("UPDATE users SET credits = COALESCE").
		WithArgs(10, "prov-1").
		WillReturnRows(pgxmock.NewRows([]string{"credits"}).AddRow(15))
	mock.ExpectQuery("UPDATE users SET credits = COALESCE").
		WithArgs(10, "cust-1").
		WillReturnError(pgx.ErrNoRows)

	credits, err := repo.AddCredits(context.Background(), "prov-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 15, credits)

	_, err = repo.AddCredits(context.Background(), "cust-1", 10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
