package storage

import (
	"context"
	"time"
)

// Storage is the object-store gateway for payment-proof files. Upload and
// view URLs are presigned so the proof bytes never pass through this server.
type Storage interface {
	// SignedUploadURL returns a time-limited PUT URL for a new proof object.
	SignedUploadURL(ctx context.Context, key, contentType string, contentLength int64, expiry time.Duration) (string, error)

	// SignedViewURL returns a time-limited read-only URL.
	SignedViewURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Exists reports whether the object is present. (false, nil) means the
	// store confirmed absence; transport or auth failures propagate as
	// errors and must never be read as "absent".
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an object. Absent objects are not an error.
	Delete(ctx context.Context, key string) error
}

// Config holds object-store connection settings.
type Config struct {
	Endpoint     string // custom S3-compatible endpoint (R2, minio); empty for AWS
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	DefaultTTL   time.Duration // default expiry for signed URLs
}

// Signed URL lifetimes are clamped into a fixed band no matter what the
// configuration says: a writable URL must not live longer than an hour, and
// a sub-minute TTL breaks slow uploads.
const (
	MinSignedTTL = 60 * time.Second
	MaxSignedTTL = time.Hour
)

// ClampTTL forces an expiry into the [MinSignedTTL, MaxSignedTTL] band.
// Non-positive values fall back to the default.
func ClampTTL(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		d = fallback
	}
	if d < MinSignedTTL {
		return MinSignedTTL
	}
	if d > MaxSignedTTL {
		return MaxSignedTTL
	}
	return d
}

// NewStorage builds the S3-backed gateway.
func NewStorage(cfg Config) (Storage, error) {
	return NewS3Storage(cfg)
}
