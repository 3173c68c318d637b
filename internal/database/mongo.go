package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names of the document backend
const (
	UsersCollection   = "users"
	CoursesCollection = "courses"
)

const mongoConnectTimeout = 30 * time.Second

// UserDocument is a user as stored in the users collection. The id is the
// user's UUID in string form.
type UserDocument struct {
	ID           string    `bson:"_id"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	EmailAddress string    `bson:"emailAddress"`
	Password     string    `bson:"password"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// CourseDocument is a course as stored in the courses collection. Owner is
// only set on documents read through the owner $lookup.
type CourseDocument struct {
	ID              string        `bson:"_id"`
	User            string        `bson:"user"`
	Owner           *UserDocument `bson:"owner,omitempty"`
	Title           string        `bson:"title"`
	Description     string        `bson:"description"`
	EstimatedTime   *string       `bson:"estimatedTime,omitempty"`
	MaterialsNeeded *string       `bson:"materialsNeeded,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt"`
}

// ConnectMongo connects to MongoDB and verifies the connection with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// EnsureMongoIndexes creates the unique email index and the course owner index
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "emailAddress", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_address_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(CoursesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetName("courses_user_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create courses index: %w", err)
	}

	return nil
}
