package repository

import (
	"context"

	"devcamp-api/internal/domain/entity"
)

// ListParams carries pagination and ordering for list queries.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
}

// BootcampRepository defines persistence for bootcamp listings.
type BootcampRepository interface {
	Create(ctx context.Context, b *entity.Bootcamp) error
	GetByID(ctx context.Context, id string) (*entity.Bootcamp, error)
	GetByUser(ctx context.Context, userID string) (*entity.Bootcamp, error)
	List(ctx context.Context, p ListParams) ([]*entity.Bootcamp, int, error)
	Update(ctx context.Context, b *entity.Bootcamp) error
	Delete(ctx context.Context, id string) error

	// WithinRadius returns bootcamps within radiusMiles of the given point,
	// great-circle distance.
	WithinRadius(ctx context.Context, lat, lng, radiusMiles float64) ([]*entity.Bootcamp, error)
	// SetPhoto updates only the photo URL.
	SetPhoto(ctx context.Context, id, photoURL string) error
}
