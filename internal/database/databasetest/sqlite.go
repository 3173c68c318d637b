// Package databasetest provides throwaway databases for repository tests.
package databasetest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/redmonkez12/course-api/internal/database"
)

// NewSQLite returns a bun.DB over a private in-memory SQLite database with
// the application schema applied. It is closed when the test ends.
func NewSQLite(t testing.TB) *bun.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if err := database.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return db
}
