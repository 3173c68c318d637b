package course

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redmonkez12/course-api/internal/database"
)

// MongoRepository handles course persistence in the courses collection.
// Owners are populated with a $lookup into the users collection.
type MongoRepository struct {
	courses *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{courses: db.Collection(database.CoursesCollection)}
}

// Create inserts a new course document
func (r *MongoRepository) Create(ctx context.Context, c *Course) error {
	doc := database.CourseDocument{
		ID:              c.ID.String(),
		User:            c.UserID.String(),
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if _, err := r.courses.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// List retrieves all courses, oldest first, with owners populated
func (r *MongoRepository) List(ctx context.Context) ([]Course, error) {
	docs, err := r.populated(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses := make([]Course, 0, len(docs))
	for i := range docs {
		c, err := mapCourseDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, nil
}

// GetByID retrieves a course with its owner populated
func (r *MongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	docs, err := r.populated(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	return mapCourseDocument(&docs[0])
}

// Update writes the editable fields of c
func (r *MongoRepository) Update(ctx context.Context, c *Course) error {
	result, err := r.courses.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: c.ID.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: c.Title},
			{Key: "description", Value: c.Description},
			{Key: "estimatedTime", Value: c.EstimatedTime},
			{Key: "materialsNeeded", Value: c.MaterialsNeeded},
			{Key: "updatedAt", Value: c.UpdatedAt},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a course by ID
func (r *MongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.courses.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// populated runs the match -> sort -> owner lookup pipeline
func (r *MongoRepository) populated(ctx context.Context, match bson.D) ([]database.CourseDocument, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.UsersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.password", Value: 0},
			{Key: "owner.emailAddress", Value: 0},
		}}},
	}

	cursor, err := r.courses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var docs []database.CourseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func mapCourseDocument(doc *database.CourseDocument) (*Course, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q: %w", doc.ID, err)
	}
	userID, err := uuid.Parse(doc.User)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q on course %s: %w", doc.User, doc.ID, err)
	}

	c := &Course{
		ID:              id,
		UserID:          userID,
		Title:           doc.Title,
		Description:     doc.Description,
		EstimatedTime:   doc.EstimatedTime,
		MaterialsNeeded: doc.MaterialsNeeded,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}

	if doc.Owner != nil {
		c.Owner = &Owner{ID: userID, FirstName: doc.Owner.FirstName, LastName: doc.Owner.LastName}
	}

	return c, nil
}

var (
	_ Store = (*MongoRepository)(nil)
	_ Store = (*Repository)(nil)
)
