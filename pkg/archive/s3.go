package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config contains configuration for an S3-compatible object storage backend.
type S3Config struct {
	// Endpoint is the object storage endpoint host[:port].
	// Default: "s3.amazonaws.com".
	Endpoint string

	// Bucket is the target bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Region is the bucket region.
	Region string

	// AccessKey and SecretKey are static credentials. When both are empty
	// the backend falls back to the environment/IAM credential chain.
	AccessKey string
	SecretKey string

	// UseSSL enables TLS to the endpoint. Default: true.
	UseSSL bool

	// StorageClass is the storage class hint attached to uploads.
	// Default: "STANDARD_IA" - rotated logs are written once and read
	// rarely, if ever.
	StorageClass string
}

// S3Backend uploads rotated artifacts to S3-compatible object storage,
// keyed by UTC upload date so retention tooling and humans can locate a
// day's artifacts with a prefix listing:
//
//	{prefix}{yyyy}/{mm}/{dd}/{filename}
type S3Backend struct {
	name   string
	config *S3Config
	client *minio.Client
	host   string
	logger *slog.Logger
}

// NewS3Backend creates an S3 object storage backend.
func NewS3Backend(name string, cfg *S3Config) (*S3Backend, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 backend %q: bucket is required", name)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	if cfg.StorageClass == "" {
		cfg.StorageClass = "STANDARD_IA"
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewEnvAWS()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 backend %q: create client: %w", name, err)
	}

	host, _ := os.Hostname()

	return &S3Backend{
		name:   name,
		config: cfg,
		client: client,
		host:   host,
		logger: slog.Default().With("component", "archive.s3", "backend", name),
	}, nil
}

// Name returns the backend's registered name.
func (b *S3Backend) Name() string {
	return b.name
}

// Upload puts the artifact under a date-namespaced key with integrity and
// provenance metadata. Object keys are deterministic per file name and day,
// so a retried upload of the same artifact overwrites its earlier copy.
func (b *S3Backend) Upload(ctx context.Context, localPath, contentHash string) error {
	key := b.objectKey(localPath, time.Now().UTC())

	info, err := b.client.FPutObject(ctx, b.config.Bucket, key, localPath, minio.PutObjectOptions{
		StorageClass: b.config.StorageClass,
		UserMetadata: map[string]string{
			"content-hash": contentHash,
			"uploaded-at":  time.Now().UTC().Format(time.RFC3339),
			"source-host":  b.host,
		},
	})
	if err != nil {
		return NewUploadError(b.name, localPath, err)
	}

	b.logger.Debug("artifact uploaded",
		"bucket", b.config.Bucket,
		"key", key,
		"size", info.Size,
	)

	return nil
}

// objectKey builds the date-namespaced object key for an artifact.
func (b *S3Backend) objectKey(localPath string, now time.Time) string {
	return fmt.Sprintf("%s%04d/%02d/%02d/%s",
		b.config.Prefix,
		now.Year(), int(now.Month()), now.Day(),
		filepath.Base(localPath),
	)
}
