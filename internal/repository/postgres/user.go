package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/internal/repository"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

const userPhoneConstraint = "users_phone_key"

const userColumns = `
		id, email, phone, name, user_type, COALESCE(business_type, ''), COALESCE(location, ''),
		is_verified, credits, created_at`

const (
	selectUserByID = `SELECT` + userColumns + `
		FROM users
		WHERE id = $1`

	updateUserProfile = `
		UPDATE users SET
			name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			business_type = COALESCE($3, business_type),
			location = COALESCE($4, location)
		WHERE id = $5
		RETURNING` + userColumns

	addUserCredits = `
		UPDATE users SET credits = COALESCE(credits, 0) + $1
		WHERE id = $2 AND user_type = 'provider'
		RETURNING credits`
)

// UserRepository implements repository.UserRepository on PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns one user.
func (r *UserRepository) GetByID(ctx context.Context, id string) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, "users.GetByID", selectUserByID)
	defer func() { end(err) }()

	var u domain.User
	if err = r.pool.QueryRow(ctx, selectUserByID, id).Scan(userDest(&u)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// UpdateProfile writes the non-nil fields of update.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update repository.ProfileUpdate) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, "users.UpdateProfile", updateUserProfile)
	defer func() { end(err) }()

	var u domain.User
	err = r.pool.QueryRow(ctx, updateUserProfile,
		update.Name,
		update.Phone,
		update.BusinessType,
		update.Location,
		id,
	).Scan(userDest(&u)...)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NotFound("user", id)
		case database.IsUniqueViolation(err, userPhoneConstraint):
			return nil, apperrors.Conflict("phone number already in use")
		}
		return nil, fmt.Errorf("update user %s profile: %w", id, err)
	}
	return &u, nil
}

// AddCredits adds amount to a provider's balance.
func (r *UserRepository) AddCredits(ctx context.Context, id string, amount int) (_ int, err error) {
	ctx, end := database.TraceQuery(ctx, "users.AddCredits", addUserCredits)
	defer func() { end(err) }()

	var credits int
	if err = r.pool.QueryRow(ctx, addUserCredits, amount, id).Scan(&credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("provider", id)
		}
		return 0, fmt.Errorf("add credits to %s: %w", id, err)
	}
	return credits, nil
}

func userDest(u *domain.User) []any {
	return []any{
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.Name,
		&u.UserType,
		&u.BusinessType,
		&u.Location,
		&u.IsVerified,
		&u.Credits,
		&u.CreatedAt,
	}
}
