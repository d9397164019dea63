package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
)

// MongoStore handles content CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("contents"), now: time.Now}
}

// EnsureIndexes creates the owner lookup index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateContent(ctx context.Context, c *models.Content) (*models.Content, error) {
	if err := checkPersistable(c); err != nil {
		return nil, err
	}
	doc := *c
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = s.now().UTC()
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: mongo insert: %w", apperr.ErrStore, err)
	}
	return &doc, nil
}

// FindContentByOwner returns the owner's items in natural order, optionally
// narrowed to one content type.
func (s *MongoStore) FindContentByOwner(ctx context.Context, ownerID string, types models.ContentType) ([]models.Content, error) {
	filter := bson.M{"user_id": ownerID}
	if types != "" {
		filter["types"] = types
	}
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find: %w", apperr.ErrStore, err)
	}
	defer cur.Close(ctx)

	docs := []models.Content{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: mongo decode: %w", apperr.ErrStore, err)
	}
	return docs, nil
}

func (s *MongoStore) FindContentByID(ctx context.Context, id string) (*models.Content, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	var doc models.Content
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find one: %w", apperr.ErrStore, err)
	}
	return &doc, nil
}

func (s *MongoStore) DeleteContentByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: mongo delete: %w", apperr.ErrStore, err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// checkPersistable rejects content types the store does not accept, before
// anything is written.
func checkPersistable(c *models.Content) error {
	if !c.Types.Persistable() {
		return &apperr.ValidationError{Fields: []apperr.FieldError{{
			Field: "types",
			Rule:  "oneof",
			Param: "document Twitter youtube",
		}}}
	}
	return nil
}
