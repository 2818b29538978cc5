package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockListingService implements services.IListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListListings(ctx context.Context, filter services.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) GetListingDetails(ctx context.Context, listingID primitive.ObjectID) (*models.ListingDetails, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingDetails), args.Error(1)
}

func (m *MockListingService) CreateListing(ctx context.Context, ownerID primitive.ObjectID, input services.ListingInput, upload *storage.Upload) (*models.Listing, error) {
	args := m.Called(ctx, ownerID, input, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, listingID primitive.ObjectID, patch services.ListingPatch, upload *storage.Upload) (*models.Listing, error) {
	args := m.Called(ctx, listingID, patch, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) DeleteListing(ctx context.Context, listingID primitive.ObjectID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

// MockReviewService implements services.IReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) FindReviewByID(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) CreateReview(ctx context.Context, listingID, authorID primitive.ObjectID, input services.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, listingID, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	args := m.Called(ctx, listingID, reviewID)
	return args.Error(0)
}

// MockImageStorage implements storage.IImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(ctx context.Context, ownerID string, upload *storage.Upload) (*models.Image, error) {
	args := m.Called(ctx, ownerID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageStorage) DeleteImage(ctx context.Context, img models.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockImageStorage) ThumbnailURL(img models.Image) string {
	args := m.Called(img)
	return args.String(0)
}
