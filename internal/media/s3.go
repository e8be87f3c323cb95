// Package media stores uploaded assets (profile pictures, certificates,
// government IDs, portfolio media) in S3 and returns stable public URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// File is one uploaded asset handed down from a multipart request.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Uploader stores a file under a kind prefix and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, kind string, f File) (string, error)
}

type s3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

func NewS3Uploader(ctx context.Context, region, bucket string) (Uploader, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &s3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
	}, nil
}

func (s *s3Uploader) Upload(ctx context.Context, kind string, f File) (string, error) {
	key := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), path.Ext(f.Name))

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f.Content,
		ContentType: aws.String(f.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", kind, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)), nil
}

// NopUploader stands in when no bucket is configured; every upload fails.
type NopUploader struct{}

func (NopUploader) Upload(_ context.Context, kind string, _ File) (string, error) {
	return "", fmt.Errorf("media storage not configured, cannot upload %s", kind)
}
