package course

import "github.com/google/uuid"

// OwnerResponse is the populated owner of a course
type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	EstimatedTime   *string        `json:"estimatedTime,omitempty"`
	MaterialsNeeded *string        `json:"materialsNeeded,omitempty"`
	User            *OwnerResponse `json:"user"`
}

func toResponse(c *Course) CourseResponse {
	resp := CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
	}
	if c.Owner != nil {
		resp.User = &OwnerResponse{
			ID:        c.Owner.ID,
			FirstName: c.Owner.FirstName,
			LastName:  c.Owner.LastName,
		}
	}
	return resp
}
