package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ishanKurnal/WanderLust/internal/db"
	"github.com/ishanKurnal/WanderLust/internal/models"
)

// ReviewInput carries a submitted review.
type ReviewInput struct {
	Comment string
	Rating  *int
}

// IReviewService defines the interface for review-related operations.
type IReviewService interface {
	FindReviewByID(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error)
	CreateReview(ctx context.Context, listingID, authorID primitive.ObjectID, input ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error
}

// reviewService implements IReviewService.
type reviewService struct {
	db *mongo.Database
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *mongo.Database) IReviewService {
	return &reviewService{db: db}
}

// FindReviewByID returns ErrReviewNotFound when no review has the id.
func (s *reviewService) FindReviewByID(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.db.Collection(reviewsCollection).FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("error finding review %s: %w", reviewID.Hex(), err)
	}
	return &review, nil
}

// CreateReview inserts the review and appends its id to the listing. If the
// listing cannot be updated the inserted review is removed again.
func (s *reviewService) CreateReview(ctx context.Context, listingID, authorID primitive.ObjectID, input ReviewInput) (*models.Review, error) {
	listings := s.db.Collection(listingsCollection)
	reviews := s.db.Collection(reviewsCollection)

	count, err := listings.CountDocuments(ctx, bson.M{"_id": listingID})
	if err != nil {
		return nil, fmt.Errorf("error checking listing %s: %w", listingID.Hex(), err)
	}
	if count == 0 {
		return nil, ErrListingNotFound
	}

	review := &models.Review{
		ID:        primitive.NewObjectID(),
		Comment:   input.Comment,
		Rating:    input.Rating,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err = db.InsertOne(ctx, reviews, review.ID, review); err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	var result *mongo.UpdateResult
	err = db.Try(func() error {
		var updateErr error
		result, updateErr = listings.UpdateOne(ctx, bson.M{"_id": listingID}, attachReview(review.ID))
		return updateErr
	})
	if err == nil && result.MatchedCount == 0 {
		err = ErrListingNotFound
	}
	if err != nil {
		if _, delErr := reviews.DeleteOne(ctx, bson.M{"_id": review.ID}); delErr != nil {
			log.Printf("Failed to remove orphaned review %s: %v", review.ID.Hex(), delErr)
		}
		if errors.Is(err, ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error attaching review to listing %s: %w", listingID.Hex(), err)
	}

	return review, nil
}

// attachReview appends a review id to a listing. Applying it again leaves the
// id in place once, so the write is safe to retry.
func attachReview(reviewID primitive.ObjectID) bson.M {
	return bson.M{"$addToSet": bson.M{"reviews": reviewID}}
}

// DeleteReview removes the review record first and then pulls its id from
// the listing, retrying the pull on transient errors. A reference left behind
// by a failed pull points at nothing and is skipped when reviews are loaded.
func (s *reviewService) DeleteReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	listings := s.db.Collection(listingsCollection)

	count, err := listings.CountDocuments(ctx, bson.M{"_id": listingID, "reviews": reviewID})
	if err != nil {
		return fmt.Errorf("error checking listing %s: %w", listingID.Hex(), err)
	}
	if count == 0 {
		return ErrReviewNotFound
	}

	res, err := s.db.Collection(reviewsCollection).DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return fmt.Errorf("error deleting review %s: %w", reviewID.Hex(), err)
	}
	if res.DeletedCount == 0 {
		log.Printf("Review %s already gone, removing reference from listing %s", reviewID.Hex(), listingID.Hex())
	}

	err = db.Try(func() error {
		_, pullErr := listings.UpdateMany(ctx,
			bson.M{"reviews": reviewID},
			bson.M{"$pull": bson.M{"reviews": reviewID}},
		)
		return pullErr
	})
	if err != nil {
		return fmt.Errorf("review %s deleted but still referenced: %w", reviewID.Hex(), err)
	}
	return nil
}
