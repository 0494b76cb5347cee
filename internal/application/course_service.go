package application

import (
	"context"
	"fmt"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
)

// CourseService owns courses nested under bootcamps. Ownership follows the
// owning bootcamp: only its owner or an admin may mutate its courses.
type CourseService struct {
	Courses   repository.CourseRepository
	Bootcamps repository.BootcampRepository
}

type CourseInput struct {
	Title                string
	Description          string
	Weeks                int
	Tuition              int
	MinimumSkill         entity.MinimumSkill
	ScholarshipAvailable *bool
}

func (s *CourseService) List(ctx context.Context, p repository.ListParams) ([]*entity.Course, int, error) {
	return s.Courses.List(ctx, p)
}

func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]*entity.Course, error) {
	if _, err := s.Bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}
	return s.Courses.ListByBootcamp(ctx, bootcampID)
}

func (s *CourseService) Get(ctx context.Context, id string) (*entity.Course, error) {
	return s.Courses.GetByID(ctx, id)
}

func (s *CourseService) Create(ctx context.Context, principal *entity.User, bootcampID string, in CourseInput) (*entity.Course, error) {
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnerOrAdmin(principal, b.UserID) {
		return nil, apierror.Forbidden(fmt.Sprintf("User %s is not authorized to add a course to this bootcamp", principal.ID))
	}

	c := &entity.Course{
		Title:        in.Title,
		Description:  in.Description,
		Weeks:        in.Weeks,
		Tuition:      in.Tuition,
		MinimumSkill: in.MinimumSkill,
		BootcampID:   b.ID,
		UserID:       b.UserID,
	}
	if in.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *in.ScholarshipAvailable
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, principal *entity.User, id string, in CourseInput) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnerOrAdmin(principal, c.UserID) {
		return nil, apierror.Forbidden(fmt.Sprintf("User %s is not authorized to update this course", principal.ID))
	}

	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Weeks > 0 {
		c.Weeks = in.Weeks
	}
	if in.Tuition > 0 {
		c.Tuition = in.Tuition
	}
	if in.MinimumSkill != "" {
		c.MinimumSkill = in.MinimumSkill
	}
	if in.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *in.ScholarshipAvailable
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, principal *entity.User, id string) error {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !entity.IsOwnerOrAdmin(principal, c.UserID) {
		return apierror.Forbidden(fmt.Sprintf("User %s is not authorized to delete this course", principal.ID))
	}
	return s.Courses.Delete(ctx, id)
}
