package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/bazaarhq/bazaar-backend/config"
	"github.com/google/uuid"
)

// Upload folders clients may target. Anything else is rejected so the
// bucket layout stays predictable.
const (
	FolderItemImages    = "item_images"
	FolderReviewImages  = "review_images"
	FolderProfileImages = "profile_images"
)

const (
	presignExpiry = 15 * time.Minute
	// MaxUploadSize is the largest object a presigned PUT may carry
	MaxUploadSize = 10 << 20
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(cfg *appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		// default credential chain: env vars, shared config, IAM role
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
	}
}

// GeneratePresignedURL returns a short-lived PUT URL for a direct browser
// upload, plus the public URL the object will have once uploaded.
func (s *S3Storage) GeneratePresignedURL(filename, contentType, folder string) (*PresignedURLResponse, error) {
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ValidateFolder rejects upload destinations outside the known folders
func ValidateFolder(folder string) error {
	switch folder {
	case FolderItemImages, FolderReviewImages, FolderProfileImages:
		return nil
	}
	return fmt.Errorf("folder %q is not an allowed upload destination", folder)
}

// ValidateContentType allows image uploads only
func ValidateContentType(contentType string) error {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range allowedImageTypes {
		if normalized == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

// ValidateFileSize bounds the declared upload size
func ValidateFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", int64(MaxUploadSize))
	}
	return nil
}
