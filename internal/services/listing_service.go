package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/db"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

// SearchFields are the listing fields a text query may target.
var SearchFields = []string{"title", "description", "location", "country", "category"}

// defaultSearchFields are searched when no field is given.
var defaultSearchFields = []string{"title", "description", "location", "country"}

// ListingFilter narrows the index page.
type ListingFilter struct {
	Category string
	Query    string
	Field    string
}

// ListingInput carries the fields of a new listing.
type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Category    string
}

// ListingPatch carries the fields submitted on edit. Nil fields are left unchanged.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Country     *string
	Category    *string
}

// IListingService defines the interface for listing-related operations.
type IListingService interface {
	ListListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error)
	GetListingDetails(ctx context.Context, listingID primitive.ObjectID) (*models.ListingDetails, error)
	CreateListing(ctx context.Context, ownerID primitive.ObjectID, input ListingInput, upload *storage.Upload) (*models.Listing, error)
	UpdateListing(ctx context.Context, listingID primitive.ObjectID, patch ListingPatch, upload *storage.Upload) (*models.Listing, error)
	DeleteListing(ctx context.Context, listingID primitive.ObjectID) error
}

const (
	listingsCollection = "listings"
	reviewsCollection  = "reviews"
)

// listingService implements IListingService.
type listingService struct {
	db        *mongo.Database
	cfg       *config.Config
	locations ILocationService
	images    storage.IImageStorage
}

// NewListingService creates a new ListingService.
func NewListingService(db *mongo.Database, cfg *config.Config, locations ILocationService, images storage.IImageStorage) IListingService {
	return &listingService{db: db, cfg: cfg, locations: locations, images: images}
}

// ListListings returns every listing matching the filter in natural order.
func (s *listingService) ListListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	query, err := buildListingQuery(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := s.db.Collection(listingsCollection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("error decoding listings: %w", err)
	}
	return listings, nil
}

func buildListingQuery(filter ListingFilter) (bson.M, error) {
	query := bson.M{}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query["category"] = category
	}

	text := strings.TrimSpace(filter.Query)
	field := strings.ToLower(strings.TrimSpace(filter.Field))
	if field != "" && !isSearchField(field) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, filter.Field)
	}
	if text == "" {
		return query, nil
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	if field != "" {
		if field == "category" && query["category"] != nil {
			query["$and"] = bson.A{bson.M{"category": pattern}}
		} else {
			query[field] = pattern
		}
		return query, nil
	}

	or := bson.A{}
	for _, f := range defaultSearchFields {
		or = append(or, bson.M{f: pattern})
	}
	query["$or"] = or
	return query, nil
}

func isSearchField(field string) bool {
	for _, f := range SearchFields {
		if f == field {
			return true
		}
	}
	return false
}

// FindListingByID returns ErrListingNotFound when no listing has the id.
func (s *listingService) FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	return &listing, nil
}

// GetListingDetails loads a listing with its owner and its reviews, each
// review with its author. Reviews keep the listing's order; ids whose review
// no longer exists are skipped.
func (s *listingService) GetListingDetails(ctx context.Context, listingID primitive.ObjectID) (*models.ListingDetails, error) {
	listing, err := s.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	reviewsByID := map[primitive.ObjectID]models.Review{}
	if len(listing.ReviewIDs) > 0 {
		cursor, err := s.db.Collection(reviewsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": listing.ReviewIDs}})
		if err != nil {
			return nil, fmt.Errorf("error loading reviews for listing %s: %w", listingID.Hex(), err)
		}
		var reviews []models.Review
		if err := cursor.All(ctx, &reviews); err != nil {
			return nil, fmt.Errorf("error decoding reviews for listing %s: %w", listingID.Hex(), err)
		}
		for _, r := range reviews {
			reviewsByID[r.ID] = r
		}
	}

	userIDs := []primitive.ObjectID{listing.OwnerID}
	for _, r := range reviewsByID {
		userIDs = append(userIDs, r.AuthorID)
	}
	users, err := s.findUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	details := &models.ListingDetails{
		Listing: *listing,
		Owner:   users[listing.OwnerID],
		Reviews: make([]models.ReviewDetails, 0, len(reviewsByID)),
	}
	for _, id := range listing.ReviewIDs {
		r, ok := reviewsByID[id]
		if !ok {
			continue
		}
		details.Reviews = append(details.Reviews, models.ReviewDetails{Review: r, Author: users[r.AuthorID]})
	}
	return details, nil
}

func (s *listingService) findUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// CreateListing geocodes the location, stores the optional image and inserts
// the listing. Nothing is persisted when the location cannot be resolved.
func (s *listingService) CreateListing(ctx context.Context, ownerID primitive.ObjectID, input ListingInput, upload *storage.Upload) (*models.Listing, error) {
	geometry, err := s.locations.Geocode(ctx, input.Location)
	if err != nil {
		return nil, err
	}

	var image models.Image
	if upload != nil {
		stored, err := s.images.UploadImage(ctx, ownerID.Hex(), upload)
		if err != nil {
			return nil, err
		}
		image = *stored
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Image:       image.Normalize(s.cfg.PlaceholderImageURL),
		Price:       input.Price,
		Location:    input.Location,
		Country:     input.Country,
		Category:    input.Category,
		Geometry:    geometry,
		OwnerID:     ownerID,
		ReviewIDs:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = db.InsertOne(ctx, s.db.Collection(listingsCollection), listing.ID, listing); err != nil {
		s.discardImage(ctx, image)
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	log.Printf("Listing %s created by user %s", listing.ID.Hex(), ownerID.Hex())
	return listing, nil
}

// UpdateListing applies the submitted fields. A new location is re-geocoded
// and a new image replaces the stored one, which is removed after the write.
func (s *listingService) UpdateListing(ctx context.Context, listingID primitive.ObjectID, patch ListingPatch, upload *storage.Upload) (*models.Listing, error) {
	existing, err := s.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Location != nil {
		geometry, err := s.locations.Geocode(ctx, *patch.Location)
		if err != nil {
			return nil, err
		}
		set["location"] = *patch.Location
		set["geometry"] = geometry
	}

	var newImage models.Image
	if upload != nil {
		stored, err := s.images.UploadImage(ctx, existing.OwnerID.Hex(), upload)
		if err != nil {
			return nil, err
		}
		newImage = *stored
		set["image"] = newImage.Normalize(s.cfg.PlaceholderImageURL)
	}

	var updated models.Listing
	err = db.Try(func() error {
		return s.db.Collection(listingsCollection).FindOneAndUpdate(ctx,
			bson.M{"_id": listingID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error updating listing %s: %w", listingID.Hex(), err)
	}

	if upload != nil && existing.Image.Filename != newImage.Filename {
		s.discardImage(ctx, existing.Image)
	}
	return &updated, nil
}

// DeleteListing removes the listing and then every review it referenced.
// A failure deleting the reviews is returned; the stored image is removed
// best-effort.
func (s *listingService) DeleteListing(ctx context.Context, listingID primitive.ObjectID) error {
	var deleted models.Listing
	err := s.db.Collection(listingsCollection).FindOneAndDelete(ctx, bson.M{"_id": listingID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrListingNotFound
		}
		return fmt.Errorf("error deleting listing %s: %w", listingID.Hex(), err)
	}

	if len(deleted.ReviewIDs) > 0 {
		err = db.Try(func() error {
			_, delErr := s.db.Collection(reviewsCollection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": deleted.ReviewIDs}})
			return delErr
		})
		if err != nil {
			return fmt.Errorf("listing %s deleted but its reviews were not: %w", listingID.Hex(), err)
		}
	}

	s.discardImage(ctx, deleted.Image)
	log.Printf("Listing %s deleted with %d reviews", listingID.Hex(), len(deleted.ReviewIDs))
	return nil
}

func (s *listingService) discardImage(ctx context.Context, img models.Image) {
	if img.IsPlaceholder() {
		return
	}
	if err := s.images.DeleteImage(ctx, img); err != nil {
		log.Printf("Failed to delete stored image %s: %v", img.Filename, err)
	}
}
