package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"backend/internal/config"
)

// Spaces wraps an S3-compatible bucket (DigitalOcean Spaces) for media
// uploads. Objects are uploaded public-read and served via the CDN URL.
type Spaces struct {
	client *minio.Client
	bucket string
	cdnURL string
}

func NewSpaces(cfg config.Config) (*Spaces, error) {
	if cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "" {
		return nil, fmt.Errorf("spaces endpoint and bucket are required")
	}

	client, err := minio.New(cfg.SpacesEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.SpacesKey, cfg.SpacesSecret, ""),
		Secure: true,
		Region: cfg.SpacesRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("spaces client: %w", err)
	}

	return &Spaces{
		client: client,
		bucket: cfg.SpacesBucket,
		cdnURL: strings.TrimRight(cfg.SpacesCDNURL, "/"),
	}, nil
}

// SanitizeFilename lowercases the name and replaces anything outside
// [a-z0-9.-] with a dash, collapsing runs.
func SanitizeFilename(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ObjectKey builds a collision-safe key under the given folder.
func ObjectKey(folder, filename string, at time.Time) string {
	safe := SanitizeFilename(filename)
	if safe == "" {
		safe = "file"
	}
	stamp := strconv.FormatInt(at.UnixMilli(), 10)
	return folder + "/" + stamp + "-" + uuid.NewString()[:8] + "-" + safe
}

// PublicURL maps an object key to its CDN address.
func (s *Spaces) PublicURL(key string) string {
	return s.cdnURL + "/" + key
}

// Upload streams the object to the bucket with a public-read ACL.
func (s *Spaces) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.PublicURL(key), nil
}

// PresignUpload returns a short-lived URL the browser can PUT to
// directly, keeping large files off the API server.
func (s *Spaces) PresignUpload(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, 10*time.Minute)
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return u.String(), nil
}

// Delete removes an object, used when an admin replaces media.
func (s *Spaces) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
