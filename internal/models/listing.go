package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing represents a property offered for stay.
type Listing struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Image       Image                `bson:"image" json:"image"`
	Price       float64              `bson:"price" json:"price"`
	Location    string               `bson:"location" json:"location"`
	Country     string               `bson:"country" json:"country"`
	Category    string               `bson:"category,omitempty" json:"category,omitempty"`
	Geometry    *GeoJSON             `bson:"geometry,omitempty" json:"geometry,omitempty"`
	OwnerID     primitive.ObjectID   `bson:"owner" json:"owner"`
	ReviewIDs   []primitive.ObjectID `bson:"reviews" json:"reviews"` // creation order
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsOwnedBy reports whether userID created the listing.
func (l *Listing) IsOwnedBy(userID primitive.ObjectID) bool {
	return !userID.IsZero() && l.OwnerID == userID
}

// ListingDetails is a listing with its owner and reviews resolved, as shown on
// the detail page.
type ListingDetails struct {
	Listing
	Owner   *User           `json:"owner_user,omitempty"`
	Reviews []ReviewDetails `json:"review_list"`
}

// ListingCategories are the categories offered as filters and in the listing form.
var ListingCategories = []string{
	"Trending", "Rooms", "Iconic Cities", "Mountains", "Castles",
	"Amazing Pools", "Camping", "Farms", "Arctic", "Domes", "Boats",
}
