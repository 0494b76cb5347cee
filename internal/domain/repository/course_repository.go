package repository

import (
	"context"

	"devcamp-api/internal/domain/entity"
)

// CourseRepository defines persistence for courses. Mutations keep the owning
// bootcamp's average cost current.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	List(ctx context.Context, p ListParams) ([]*entity.Course, int, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
}
