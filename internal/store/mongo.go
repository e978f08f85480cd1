package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gridrr/admin-backend/internal/models"
)

// MongoStore keeps the append-only review audit trail in MongoDB. Events are
// inserted, listed, and never modified.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("review_events")}
}

// InsertEvent appends one review event.
func (s *MongoStore) InsertEvent(ctx context.Context, ev *models.ReviewEvent) error {
	ev.CreatedAt = time.Now()
	if _, err := s.col.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("mongo insert event: %w", err)
	}
	return nil
}

// ListBySubmission returns a submission's audit trail, newest first.
func (s *MongoStore) ListBySubmission(ctx context.Context, submissionID string) ([]models.ReviewEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"submission_id": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.ReviewEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
