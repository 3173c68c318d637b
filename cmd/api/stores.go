package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redmonkez12/course-api/internal/auth"
	"github.com/redmonkez12/course-api/internal/config"
	"github.com/redmonkez12/course-api/internal/course"
	"github.com/redmonkez12/course-api/internal/database"
	"github.com/redmonkez12/course-api/internal/user"
)

// stores holds the repositories of the configured backend
type stores struct {
	Users   auth.UserStore
	Courses course.Store

	bunDB       *bun.DB
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
}

func openStores(ctx context.Context, cfg config.DatabaseConfig) (*stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		return &stores{
			Users:       user.NewMongoRepository(db),
			Courses:     course.NewMongoRepository(db),
			mongoClient: client,
			mongoDB:     db,
		}, nil
	default:
		db, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			Users:   user.NewRepository(db),
			Courses: course.NewRepository(db),
			bunDB:   db,
		}, nil
	}
}

// Migrate creates missing tables or indexes
func (s *stores) Migrate(ctx context.Context) error {
	if s.mongoDB != nil {
		if err := database.EnsureMongoIndexes(ctx, s.mongoDB); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return nil
	}

	if err := database.CreateSchema(ctx, s.bunDB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *stores) Close() {
	if s.bunDB != nil {
		s.bunDB.Close()
	}
	if s.mongoClient != nil {
		_ = s.mongoClient.Disconnect(context.Background())
	}
}
