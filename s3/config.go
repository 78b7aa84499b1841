// Package s3 provides a MinIO/S3-compatible implementation of the
// core.Backend interface.
package s3

import (
	"github.com/caarlos0/env/v11"
	perrors "github.com/jmgilman/go/errors"
	"github.com/minio/minio-go/v7"
)

// Config holds S3 backend configuration.
type Config struct {
	// Endpoint is the S3 server URL (e.g., "localhost:9000")
	Endpoint string `env:"S3_ENDPOINT"`

	// AccessKey is the access key ID for authentication
	AccessKey string `env:"S3_ACCESS_KEY"`

	// SecretKey is the secret access key for authentication
	SecretKey string `env:"S3_SECRET_KEY"`

	// UseSSL enables HTTPS connections (default: true)
	UseSSL bool `env:"S3_USE_SSL" envDefault:"true"`

	// Bucket is the S3 bucket name. When the backend is constructed
	// through a registry, the URI container fills this in.
	Bucket string `env:"-"`

	// Client is an optional pre-configured MinIO client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client `env:"-"`

	// PartThreshold is the buffered-write size above which uploads
	// switch to streaming. Default: 5MB.
	PartThreshold int64 `env:"-"`

	// RenameConcurrency limits concurrent copies during prefix rename.
	// Default: 10.
	RenameConcurrency int `env:"-"`
}

// ConfigFromEnv reads connection settings from S3_* environment
// variables. Bucket is left empty for the caller (or registry) to fill.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, perrors.Wrap(err, perrors.CodeInvalidConfig, "parse s3 environment")
	}
	return cfg, nil
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided;
// Bucket is required in all cases.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return perrors.New(perrors.CodeInvalidConfig, "bucket is required")
	}

	// If Client is provided, the connection fields are ignored.
	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return perrors.New(perrors.CodeInvalidConfig, "endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return perrors.New(perrors.CodeInvalidConfig, "access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return perrors.New(perrors.CodeInvalidConfig, "secret key is required when client is not provided")
	}

	return nil
}
