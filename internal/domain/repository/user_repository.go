package repository

import (
	"context"
	"errors"
	"time"

	"devcamp-api/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches. The error
// normalizer maps it to a 404 response.
var ErrNotFound = errors.New("not found")

// UserRepository defines persistence for users. GetByEmail loads the password
// hash (it exists for credential checks); GetByID also scans the hash but the
// entity never serializes it.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.User, error)

	// SaveResetToken persists the hashed reset token and its expiry as a
	// narrow update, bypassing full-record validation.
	SaveResetToken(ctx context.Context, id, tokenHash string, expire time.Time) error
	// ClearResetToken nulls both reset fields.
	ClearResetToken(ctx context.Context, id string) error
	// FindByResetToken matches the stored hash with an unexpired window.
	// Expired-but-matching tokens are a miss.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error)
}
