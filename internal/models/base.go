package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the document id shared by stored models.
type Base struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
}

// NewBase returns a Base with a freshly generated id.
func NewBase() Base {
	return Base{
		ID: primitive.NewObjectID(),
	}
}
