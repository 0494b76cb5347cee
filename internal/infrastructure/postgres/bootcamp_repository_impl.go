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

type BootcampRepository struct {
	pool *pgxpool.Pool
}

func NewBootcampRepository(pool *pgxpool.Pool) *BootcampRepository {
	return &BootcampRepository{pool: pool}
}

const bootcampColumns = `id, name, slug, description, website, phone, email, address,
	latitude, longitude, formatted_address, careers, photo,
	housing, job_assistance, job_guarantee, accept_gi, average_cost,
	user_id, created_at, updated_at`

func scanBootcamp(row pgx.Row) (*entity.Bootcamp, error) {
	b := &entity.Bootcamp{}
	if err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email,
		&b.Address, &b.Latitude, &b.Longitude, &b.FormattedAddress, &b.Careers, &b.Photo,
		&b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGi, &b.AverageCost,
		&b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BootcampRepository) Create(ctx context.Context, b *entity.Bootcamp) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bootcamps (name, slug, description, website, phone, email, address,
			latitude, longitude, formatted_address, careers,
			housing, job_assistance, job_guarantee, accept_gi, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address,
		b.Latitude, b.Longitude, b.FormattedAddress, b.Careers,
		b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGi, b.UserID)

	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BootcampRepository) GetByID(ctx context.Context, id string) (*entity.Bootcamp, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return scanBootcamp(r.pool.QueryRow(ctx, `
		SELECT `+bootcampColumns+` FROM bootcamps WHERE id = $1
	`, id))
}

// GetByUser returns the bootcamp published by userID, if any. Non-admin
// publishers are limited to a single bootcamp.
func (r *BootcampRepository) GetByUser(ctx context.Context, userID string) (*entity.Bootcamp, error) {
	return scanBootcamp(r.pool.QueryRow(ctx, `
		SELECT `+bootcampColumns+` FROM bootcamps WHERE user_id = $1 LIMIT 1
	`, userID))
}

var bootcampSortColumns = map[string]string{
	"name":         "name",
	"average_cost": "average_cost",
	"created_at":   "created_at",
}

// orderClause resolves a "field" or "-field" sort expression against an
// allow-list, defaulting to newest first.
func orderClause(sort string, allowed map[string]string) string {
	dir := " ASC"
	if len(sort) > 0 && sort[0] == '-' {
		dir = " DESC"
		sort = sort[1:]
	}
	if col, ok := allowed[sort]; ok {
		return col + dir
	}
	return "created_at DESC"
}

func (r *BootcampRepository) List(ctx context.Context, p repository.ListParams) ([]*entity.Bootcamp, int, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 25
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bootcamps`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+bootcampColumns+` FROM bootcamps
		ORDER BY `+orderClause(p.Sort, bootcampSortColumns)+`
		LIMIT $1 OFFSET $2
	`, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Bootcamp
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *BootcampRepository) Update(ctx context.Context, b *entity.Bootcamp) error {
	b.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE bootcamps SET name = $1, slug = $2, description = $3, website = $4,
			phone = $5, email = $6, address = $7, latitude = $8, longitude = $9,
			formatted_address = $10, careers = $11,
			housing = $12, job_assistance = $13, job_guarantee = $14, accept_gi = $15,
			updated_at = $16
		WHERE id = $17
	`, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address,
		b.Latitude, b.Longitude, b.FormattedAddress, b.Careers,
		b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGi, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BootcampRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM bootcamps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// WithinRadius selects bootcamps whose great-circle distance from (lat, lng)
// is within radiusMiles, haversine over the stored coordinates.
func (r *BootcampRepository) WithinRadius(ctx context.Context, lat, lng, radiusMiles float64) ([]*entity.Bootcamp, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bootcampColumns+` FROM bootcamps
		WHERE 3963 * acos(least(1.0,
			sin(radians($1)) * sin(radians(latitude)) +
			cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude - $2))
		)) <= $3
	`, lat, lng, radiusMiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Bootcamp
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BootcampRepository) SetPhoto(ctx context.Context, id, photoURL string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE bootcamps SET photo = $1, updated_at = now() WHERE id = $2
	`, photoURL, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BootcampRepository = (*BootcampRepository)(nil)
