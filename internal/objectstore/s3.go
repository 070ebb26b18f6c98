package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"notegraph/internal/contextutil"
)

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config configures an S3Store.
type Config struct {
	Bucket string
	Region string
	// Folder is the key prefix for uploaded objects.
	Folder string
	// PublicBaseURL is prepended to object keys to build public URLs.
	// Empty means the virtual-hosted S3 URL of the bucket.
	PublicBaseURL string
}

// S3Store uploads files to an S3 bucket and returns their public URLs.
type S3Store struct {
	client  PutObjectAPI
	bucket  string
	folder  string
	baseURL string
	newKey  func() string
}

// NewS3Store creates an S3Store using the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewS3StoreWithClient creates an S3Store on an existing client.
func NewS3StoreWithClient(client PutObjectAPI, cfg Config) *S3Store {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  strings.Trim(cfg.Folder, "/"),
		baseURL: baseURL,
		newKey:  func() string { return uuid.New().String() },
	}
}

// Upload stores body under a fresh key in the configured folder and
// returns the public URL of the object.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join(s.folder, s.newKey()+ext)

	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			contentType = byExt
		}
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	objectURL := s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath()
	logger.InfoContext(ctx, "uploaded object", "bucket", s.bucket, "key", key, "content_type", contentType)
	return objectURL, nil
}
