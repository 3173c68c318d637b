package course

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course is a course owned by the user who created it.
type Course struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Description     string
	EstimatedTime   *string
	MaterialsNeeded *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Owner is populated on reads; nil if the owning user no longer exists.
	Owner *Owner
}

// Owner is the public projection of the owning user.
type Owner struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// Input holds the editable fields of a course, used for both create and
// full-replacement update.
type Input struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.EstimatedTime = optional(in.EstimatedTime)
	in.MaterialsNeeded = optional(in.MaterialsNeeded)
}

// optional trims s and maps blank values to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
