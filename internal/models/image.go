package models

import "strings"

const (
	// DefaultImageFilename is stored when a listing has no uploaded image.
	DefaultImageFilename = "defaultimage"
	// DefaultImageURL is the stock photo shown for listings without an upload.
	DefaultImageURL = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=60"
)

// Image is an uploaded listing picture. Filename is the storage key.
type Image struct {
	Filename string `bson:"filename" json:"filename"`
	URL      string `bson:"url" json:"url"`
}

// Normalize replaces empty fields with the placeholder values. It must run
// before a listing is written so stored documents never carry blanks.
func (img Image) Normalize(placeholderURL string) Image {
	if placeholderURL == "" {
		placeholderURL = DefaultImageURL
	}
	if strings.TrimSpace(img.Filename) == "" {
		img.Filename = DefaultImageFilename
	}
	if strings.TrimSpace(img.URL) == "" {
		img.URL = placeholderURL
	}
	return img
}

// IsPlaceholder reports whether the image is the default one rather than an upload.
func (img Image) IsPlaceholder() bool {
	return img.Filename == "" || img.Filename == DefaultImageFilename
}
