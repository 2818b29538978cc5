package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ishanKurnal/WanderLust/internal/geocoding"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

// mockGeocoder is a mock implementation of geocoding.IGeocoder.
type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Forward(ctx context.Context, query string) (*geocoding.Point, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocoding.Point), args.Error(1)
}

// mockImageStorage is a mock implementation of storage.IImageStorage.
type mockImageStorage struct {
	mock.Mock
}

func (m *mockImageStorage) UploadImage(ctx context.Context, ownerID string, upload *storage.Upload) (*models.Image, error) {
	args := m.Called(ctx, ownerID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *mockImageStorage) DeleteImage(ctx context.Context, img models.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *mockImageStorage) ThumbnailURL(img models.Image) string {
	args := m.Called(img)
	return args.String(0)
}
