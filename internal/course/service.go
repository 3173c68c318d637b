package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/user"
	"github.com/redmonkez12/course-api/internal/validation"
)

var (
	ErrNotFound = errors.New("course not found")
	ErrNotOwner = errors.New("course is owned by another user")
)

// Store persists courses. List and GetByID populate Owner.
type Store interface {
	Create(ctx context.Context, c *Course) error
	List(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles course business logic
type Service struct {
	store     Store
	validator *validation.Validator
	logger    *logging.Logger
}

func NewService(store Store, validator *validation.Validator, logger *logging.Logger) *Service {
	return &Service{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Create stores a new course owned by owner
func (s *Service) Create(ctx context.Context, owner *user.User, in Input) (*Course, error) {
	in.normalize()
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Course{
		ID:              uuid.New(),
		UserID:          owner.ID,
		Title:           in.Title,
		Description:     in.Description,
		EstimatedTime:   in.EstimatedTime,
		MaterialsNeeded: in.MaterialsNeeded,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	c.Owner = &Owner{ID: owner.ID, FirstName: owner.FirstName, LastName: owner.LastName}
	return c, nil
}

// List returns every course with its owner populated
func (s *Service) List(ctx context.Context) ([]Course, error) {
	courses, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// Get returns a single course with its owner populated
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.store.GetByID(ctx, id)
}

// Update replaces the editable fields of a course owned by actor.
// Existence is checked first, then ownership, then the input.
func (s *Service) Update(ctx context.Context, actor *user.User, id uuid.UUID, in Input) (*Course, error) {
	c, err := s.ownedCourse(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	c.Title = in.Title
	c.Description = in.Description
	c.EstimatedTime = in.EstimatedTime
	c.MaterialsNeeded = in.MaterialsNeeded
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return c, nil
}

// Delete removes a course owned by actor
func (s *Service) Delete(ctx context.Context, actor *user.User, id uuid.UUID) error {
	if _, err := s.ownedCourse(ctx, actor, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	return nil
}

// Authorize returns the course when it exists and actor owns it. Handlers
// call it before reading a request body so that 404 and 401 take
// precedence over a malformed body.
func (s *Service) Authorize(ctx context.Context, actor *user.User, id uuid.UUID) (*Course, error) {
	return s.ownedCourse(ctx, actor, id)
}

func (s *Service) ownedCourse(ctx context.Context, actor *user.User, id uuid.UUID) (*Course, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID != actor.ID {
		s.logger.Warn("course ownership check failed",
			"course_id", id,
			"owner_id", c.UserID,
			"user_id", actor.ID,
		)
		return nil, ErrNotOwner
	}

	return c, nil
}
