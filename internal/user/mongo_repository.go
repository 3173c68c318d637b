package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redmonkez12/course-api/internal/database"
)

// MongoRepository handles user persistence in the users collection
type MongoRepository struct {
	users *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{users: db.Collection(database.UsersCollection)}
}

// Create inserts a new user document
func (r *MongoRepository) Create(ctx context.Context, nu NewUser) (*User, error) {
	now := time.Now().UTC()
	doc := database.UserDocument{
		ID:           uuid.NewString(),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		EmailAddress: nu.EmailAddress,
		Password:     nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return MapUserDocument(&doc)
}

// GetByEmail retrieves a user by email
func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"emailAddress": email})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc database.UserDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return MapUserDocument(&doc)
}

// MapUserDocument converts a stored document to the domain model
func MapUserDocument(doc *database.UserDocument) (*User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", doc.ID, err)
	}

	return &User{
		ID:           id,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		EmailAddress: doc.EmailAddress,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
