package databasetest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redmonkez12/course-api/internal/database"
)

// NewMongo returns a freshly indexed database on the server named by
// MONGO_TEST_URI, dropped when the test ends. The test is skipped when the
// variable is not set.
func NewMongo(t testing.TB) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI is not set, skip MongoDB integration test")
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}

	db := client.Database("courses_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	if err := database.EnsureMongoIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	return db
}
