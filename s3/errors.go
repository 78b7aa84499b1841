package s3

import (
	"fmt"
	"io/fs"

	"github.com/minio/minio-go/v7"
)

// translate converts MinIO errors to stdlib fs errors.
func translate(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)
	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}

	return fmt.Errorf("s3: %w", err)
}

// pathError wraps an error in a fs.PathError for the given operation
// and key. If the error is nil, returns nil.
func pathError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: key, Err: err}
}
