package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, description, weeks, tuition, minimum_skill,
	scholarship_available, bootcamp_id, user_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Weeks, &c.Tuition, &c.MinimumSkill,
		&c.ScholarshipAvailable, &c.BootcampID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// refreshAverageCost recomputes the owning bootcamp's average tuition after
// any course mutation.
func (r *CourseRepository) refreshAverageCost(ctx context.Context, bootcampID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bootcamps SET average_cost = (
			SELECT COALESCE(ROUND(AVG(tuition)), 0) FROM courses WHERE bootcamp_id = $1
		) WHERE id = $1
	`, bootcampID)
	return err
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, description, weeks, tuition, minimum_skill,
			scholarship_available, bootcamp_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill,
		c.ScholarshipAvailable, c.BootcampID, c.UserID)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	return r.refreshAverageCost(ctx, c.BootcampID)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return scanCourse(r.pool.QueryRow(ctx, `
		SELECT `+courseColumns+` FROM courses WHERE id = $1
	`, id))
}

var courseSortColumns = map[string]string{
	"title":      "title",
	"tuition":    "tuition",
	"created_at": "created_at",
}

func (r *CourseRepository) List(ctx context.Context, p repository.ListParams) ([]*entity.Course, int, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 25
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+` FROM courses
		ORDER BY `+orderClause(p.Sort, courseSortColumns)+`
		LIMIT $1 OFFSET $2
	`, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CourseRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]*entity.Course, error) {
	if uuid.Validate(bootcampID) != nil {
		return nil, repository.ErrNotFound
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+` FROM courses WHERE bootcamp_id = $1 ORDER BY created_at DESC
	`, bootcampID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE courses SET title = $1, description = $2, weeks = $3, tuition = $4,
			minimum_skill = $5, scholarship_available = $6, updated_at = $7
		WHERE id = $8
	`, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill,
		c.ScholarshipAvailable, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return r.refreshAverageCost(ctx, c.BootcampID)
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return r.refreshAverageCost(ctx, c.BootcampID)
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
