// Package storage uploads admin-submitted media files to an S3-compatible
// object store and hands back their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/config"
)

// ErrUploadFailed is returned for any storage backend failure. The transport
// error stays in the logs, not in user-facing responses.
var ErrUploadFailed = errors.New("upload failed")

// DefaultFolder is the object key prefix used when none is given
const DefaultFolder = "media"

// Uploader uploads one file payload and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader, folder string) (string, error)
}

// S3Gateway is the S3 implementation of Uploader
type S3Gateway struct {
	client *s3.Client
	bucket string
	domain string
	log    zerolog.Logger
}

// NewS3Gateway creates a gateway against the configured S3-compatible endpoint
func NewS3Gateway(cfg *config.StorageConfig, log zerolog.Logger) *S3Gateway {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &S3Gateway{
		client: client,
		bucket: cfg.Bucket,
		domain: cfg.PublicDomain,
		log:    log.With().Str("component", "storage").Logger(),
	}
}

// Upload stores the payload under a fresh random key, preserving the original
// file extension, and returns the public URL. Every call mints a new key, so
// uploading identical content twice yields two objects.
func (g *S3Gateway) Upload(ctx context.Context, filename string, body io.Reader, folder string) (string, error) {
	if folder == "" {
		folder = DefaultFolder
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentTypeFor(filename)),
	})
	if err != nil {
		g.log.Error().Err(err).Str("filename", filename).Str("key", key).Msg("Object upload failed")
		return "", fmt.Errorf("%w: put object %q", ErrUploadFailed, key)
	}

	g.log.Info().Str("key", key).Msg("Media uploaded")
	return g.PublicURL(key), nil
}

// PublicURL builds the public URL of an object key
func (g *S3Gateway) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", g.bucket, g.domain, strings.TrimPrefix(key, "/"))
}

// contentTypeFor infers the MIME type from the filename extension
func contentTypeFor(filename string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}
