package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewEvent is an append-only audit record of a review action, stored in
// MongoDB. Status transitions and approve/publish phases each produce one.
type ReviewEvent struct {
	ID           primitive.ObjectID `json:"id"            bson:"_id,omitempty"`
	SubmissionID string             `json:"submission_id" bson:"submission_id"`
	Actor        string             `json:"actor"         bson:"actor"`
	FromStatus   string             `json:"from_status"   bson:"from_status"`
	ToStatus     string             `json:"to_status"     bson:"to_status"`
	Note         string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt    time.Time          `json:"created_at"    bson:"created_at"`
}
