package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/course-api/internal/database"
)

// Repository handles course persistence in a SQL database through Bun
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new course
func (r *Repository) Create(ctx context.Context, c *Course) error {
	_, err := r.db.NewInsert().
		Model(mapModelToDBCourse(c)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// List retrieves all courses, oldest first, joined with their owners
func (r *Repository) List(ctx context.Context) ([]Course, error) {
	var rows []database.Course
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Owner").
		Order("course.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses := make([]Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, *mapDBCourseToModel(&rows[i]))
	}
	return courses, nil
}

// GetByID retrieves a course joined with its owner
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	row := new(database.Course)
	err := r.db.NewSelect().
		Model(row).
		Relation("Owner").
		Where("course.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return mapDBCourseToModel(row), nil
}

// Update writes the editable fields of c
func (r *Repository) Update(ctx context.Context, c *Course) error {
	result, err := r.db.NewUpdate().
		Model(mapModelToDBCourse(c)).
		Column("title", "description", "estimated_time", "materials_needed", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return checkAffected(result)
}

// Delete removes a course by ID
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Course)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapModelToDBCourse(c *Course) *database.Course {
	return &database.Course{
		ID:              c.ID,
		UserID:          c.UserID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func mapDBCourseToModel(dbc *database.Course) *Course {
	c := &Course{
		ID:              dbc.ID,
		UserID:          dbc.UserID,
		Title:           dbc.Title,
		Description:     dbc.Description,
		EstimatedTime:   dbc.EstimatedTime,
		MaterialsNeeded: dbc.MaterialsNeeded,
		CreatedAt:       dbc.CreatedAt,
		UpdatedAt:       dbc.UpdatedAt,
	}

	if dbc.Owner != nil && dbc.Owner.ID != uuid.Nil {
		c.Owner = &Owner{
			ID:        dbc.Owner.ID,
			FirstName: dbc.Owner.FirstName,
			LastName:  dbc.Owner.LastName,
		}
	}

	return c
}
