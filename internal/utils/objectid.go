package utils

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for strings that are not 24-character hex ObjectIDs.
var ErrInvalidID = errors.New("invalid id")

// ParseObjectID parses a path or form value into an ObjectID.
func ParseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
