package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model of the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	FirstName    string    `bun:"first_name,notnull"`
	LastName     string    `bun:"last_name,notnull"`
	EmailAddress string    `bun:"email_address,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Course is the persistence model of the courses table
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:course"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	UserID          uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Owner           *User     `bun:"rel:belongs-to,join:user_id=id"`
	Title           string    `bun:"title,notnull"`
	Description     string    `bun:"description,notnull"`
	EstimatedTime   *string   `bun:"estimated_time"`
	MaterialsNeeded *string   `bun:"materials_needed"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}
