package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/course-api/internal/database"
	"github.com/redmonkez12/course-api/internal/database/databasetest"
)

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := databasetest.NewSQLite(t)

	require.NoError(t, database.CreateSchema(context.Background(), db))

	for _, table := range []string{"users", "courses"} {
		var n int
		err := db.NewSelect().
			ColumnExpr("count(*)").
			TableExpr("sqlite_master").
			Where("type = 'table' AND name = ?", table).
			Scan(context.Background(), &n)
		require.NoError(t, err)
		require.Equal(t, 1, n, table)
	}
}
