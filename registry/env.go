package registry

import (
	"context"

	"github.com/joshicola/cloud-path/core"
	"github.com/joshicola/cloud-path/gcs"
	"github.com/joshicola/cloud-path/s3"
)

// FromEnv builds a registry with the standard schemes wired up:
//
//   - s3:  S3-compatible object storage, credentials from S3_* variables
//   - gs:  Google Cloud Storage, Application Default Credentials
//   - mem: in-memory storage scoped to the returned registry
//
// Backend construction is deferred until a URI with the scheme is first
// resolved, so unset credentials only fail resolutions that need them.
func FromEnv(ctx context.Context) (*Registry, error) {
	reg := New()

	if err := reg.Register("s3", S3Factory()); err != nil {
		return nil, err
	}
	if err := reg.Register("gs", GCSFactory()); err != nil {
		return nil, err
	}
	if err := reg.Register("mem", MemoryFactory()); err != nil {
		return nil, err
	}
	return reg, nil
}

// S3Factory returns a factory that reads S3 credentials from the
// environment and treats the URI container as the bucket.
func S3Factory() Factory {
	return func(_ context.Context, container string) (core.Backend, error) {
		cfg, err := s3.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		cfg.Bucket = container
		return s3.New(cfg)
	}
}

// GCSFactory returns a factory that connects to Google Cloud Storage
// with Application Default Credentials, treating the URI container as
// the bucket.
func GCSFactory() Factory {
	return func(ctx context.Context, container string) (core.Backend, error) {
		return gcs.New(ctx, container)
	}
}
