package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates the users and courses tables when they are missing
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Course)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create courses table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*Course)(nil)).
		Index("courses_user_id_idx").
		Column("user_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create courses index: %w", err)
	}

	return nil
}
