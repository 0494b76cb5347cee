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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, role, password_hash, reset_password_token, reset_password_expire, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Password,
		&u.ResetPasswordToken, &u.ResetPasswordExpire, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Role, u.Password)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $1, email = $2, role = $3, updated_at = $4
		WHERE id = $5
	`, u.Name, u.Email, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if uuid.Validate(id) != nil {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveResetToken is a narrow update so a stale record elsewhere on the row
// cannot block the token write.
func (r *UserRepository) SaveResetToken(ctx context.Context, id, tokenHash string, expire time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_password_token = $1, reset_password_expire = $2
		WHERE id = $3
	`, tokenHash, expire, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_password_token = NULL, reset_password_expire = NULL
		WHERE id = $1
	`, id)
	return err
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_password_token = $1 AND reset_password_expire > $2
	`, tokenHash, now))
}

var _ repository.UserRepository = (*UserRepository)(nil)
