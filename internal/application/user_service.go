package application

import (
	"context"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/helpers"
)

// UserService backs the admin-only /users endpoints. Passwords go through the
// same bcrypt path as registration.
type UserService struct {
	Users repository.UserRepository
}

type AdminUserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	return s.Users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in AdminUserInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Role: role, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in AdminUserInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if in.Password != "" {
		hash, herr := helpers.HashPassword(in.Password)
		if herr != nil {
			return nil, herr
		}
		if err := s.Users.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Users.Delete(ctx, id)
}
