package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a guest's comment on a listing. The owning listing references it
// through Listing.ReviewIDs.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Comment   string             `bson:"comment" json:"comment"`
	Rating    *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	AuthorID  primitive.ObjectID `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// IsAuthoredBy reports whether userID wrote the review.
func (r *Review) IsAuthoredBy(userID primitive.ObjectID) bool {
	return !userID.IsZero() && r.AuthorID == userID
}

// ReviewDetails pairs a review with its author.
type ReviewDetails struct {
	Review
	Author *User `json:"author_user,omitempty"`
}
