package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for image.Decode
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/models"
)

const (
	uploadFolder = "wanderlust"
	thumbFolder  = "thumbs"
)

var (
	// ErrUnsupportedImage is returned for uploads that are not PNG or JPEG.
	ErrUnsupportedImage = errors.New("unsupported image format, allowed: png, jpg, jpeg")
	// ErrImageTooLarge is returned for uploads over the configured size limit.
	ErrImageTooLarge = errors.New("image exceeds the maximum allowed size")
	// ErrStorage wraps failures talking to the object store.
	ErrStorage = errors.New("image storage unavailable")
)

// Upload is an image received from a form, not yet stored.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FromFileHeader adapts a multipart file to an Upload.
func FromFileHeader(fh *multipart.FileHeader) *Upload {
	if fh == nil {
		return nil
	}
	return &Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// IImageStorage defines the interface for listing image storage.
type IImageStorage interface {
	// UploadImage stores the image (downscaled if needed) plus a thumbnail and
	// returns the stored image. Filename is the object key.
	UploadImage(ctx context.Context, ownerID string, upload *Upload) (*models.Image, error)
	// DeleteImage removes a stored image and its thumbnail. Placeholders are ignored.
	DeleteImage(ctx context.Context, img models.Image) error
	// ThumbnailURL returns a small version of the image for previews.
	ThumbnailURL(img models.Image) string
}

// s3API is the subset of the S3 client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements IImageStorage.
type s3Storage struct {
	cfg      *config.Config
	s3Client s3API
	newKey   func() string
}

// NewS3Storage creates a new S3 storage service.
func NewS3Storage(cfg *config.Config) (IImageStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Storage(cfg, s3.NewFromConfig(awsCfg)), nil
}

func newS3Storage(cfg *config.Config, client s3API) *s3Storage {
	return &s3Storage{cfg: cfg, s3Client: client, newKey: uuid.NewString}
}

func (s *s3Storage) UploadImage(ctx context.Context, ownerID string, upload *Upload) (*models.Image, error) {
	if upload == nil {
		return nil, errors.New("no image to upload")
	}
	maxBytes := int64(s.cfg.ImageMaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && upload.Size > maxBytes {
		return nil, ErrImageTooLarge
	}

	f, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", upload.Filename, err)
	}
	defer f.Close()

	reader := io.Reader(f)
	if maxBytes > 0 {
		reader = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", upload.Filename, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	body, thumb, contentType, ext, err := s.process(data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s.%s", uploadFolder, ownerID, s.newKey(), ext)
	if err := s.put(ctx, key, body, contentType); err != nil {
		return nil, err
	}
	if err := s.put(ctx, thumbKey(key), thumb, "image/jpeg"); err != nil {
		s.deleteKey(ctx, key)
		return nil, err
	}

	log.Printf("Stored listing image %s (%d bytes)", key, len(body))
	return &models.Image{Filename: key, URL: s.objectURL(key)}, nil
}

// process decodes the upload, downscales it to the configured maximum
// dimension and renders a fixed-width thumbnail.
func (s *s3Storage) process(data []byte) (body, thumb []byte, contentType, ext string, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, "", "", ErrUnsupportedImage
	}
	switch format {
	case "jpeg":
		contentType, ext = "image/jpeg", "jpg"
	case "png":
		contentType, ext = "image/png", "png"
	default:
		return nil, nil, "", "", ErrUnsupportedImage
	}

	body = data
	maxDim := uint(s.cfg.ImageMaxDimension)
	if maxDim > 0 && (uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim) {
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		body, err = encodeJPEG(resized)
		if err != nil {
			return nil, nil, "", "", err
		}
		img = resized
		contentType, ext = "image/jpeg", "jpg"
	}

	width := uint(s.cfg.ThumbnailWidth)
	if width == 0 {
		width = 250
	}
	thumb, err = encodeJPEG(resize.Resize(width, 0, img, resize.Lanczos3))
	if err != nil {
		return nil, nil, "", "", err
	}
	return body, thumb, contentType, ext, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *s3Storage) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (s *s3Storage) DeleteImage(ctx context.Context, img models.Image) error {
	if img.IsPlaceholder() || !strings.HasPrefix(img.Filename, uploadFolder+"/") {
		return nil
	}
	var errs []error
	for _, key := range []string{img.Filename, thumbKey(img.Filename)} {
		if _, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.AwsS3Bucket),
			Key:    aws.String(key),
		}); err != nil {
			errs = append(errs, fmt.Errorf("%w: delete %s: %v", ErrStorage, key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *s3Storage) deleteKey(ctx context.Context, key string) {
	if _, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		log.Printf("Failed to remove orphaned object %s: %v", key, err)
	}
}

func (s *s3Storage) ThumbnailURL(img models.Image) string {
	if img.IsPlaceholder() || !strings.HasPrefix(img.Filename, uploadFolder+"/") {
		return img.URL
	}
	return s.objectURL(thumbKey(img.Filename))
}

func (s *s3Storage) objectURL(key string) string {
	if base := strings.TrimRight(s.cfg.ImageBaseS3URL, "/"); base != "" {
		return base + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AwsS3Bucket, s.cfg.AwsRegion, key)
}

// thumbKey maps wanderlust/<owner>/<id>.<ext> to thumbs/wanderlust/<owner>/<id>.jpg.
func thumbKey(key string) string {
	if dot := strings.LastIndex(key, "."); dot > strings.LastIndex(key, "/") {
		key = key[:dot]
	}
	return thumbFolder + "/" + key + ".jpg"
}
