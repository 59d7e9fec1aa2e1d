package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageType selects the mirror backend.
type StorageType string

const (
	StorageFS  StorageType = "fs"
	StorageS3  StorageType = "s3"
	StorageGCS StorageType = "gcs"
)

// NewStoreFromEnv builds a mirror Store from environment variables.
//
//   - ARTIFACT_STORAGE_TYPE: "fs" (default), "s3", or "gcs"
//   - DATA_DIR: base directory for the fs store (default "data")
//   - S3: AWS_REGION/ARTIFACT_S3_REGION, ARTIFACT_S3_BUCKET (required),
//     ARTIFACT_S3_ENDPOINT, ARTIFACT_S3_PREFIX
//   - GCS: ARTIFACT_GCS_BUCKET (required), ARTIFACT_GCS_PREFIX
func NewStoreFromEnv(ctx context.Context) (Store, error) {
	storageType := StorageType(os.Getenv("ARTIFACT_STORAGE_TYPE"))
	if storageType == "" {
		storageType = StorageFS
	}

	switch storageType {
	case StorageFS:
		return newFileStoreFromEnv()
	case StorageS3:
		return newS3StoreFromEnv(ctx)
	case StorageGCS:
		return newGCSStoreFromEnv(ctx)
	default:
		return nil, fmt.Errorf("artifacts: unsupported storage type: %s", storageType)
	}
}

func newFileStoreFromEnv() (Store, error) {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	return NewFileStore(filepath.Join(dataDir, "artifacts"))
}

func newS3StoreFromEnv(ctx context.Context) (Store, error) {
	bucket := os.Getenv("ARTIFACT_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("artifacts: ARTIFACT_S3_BUCKET is required for s3 storage")
	}

	region := os.Getenv("ARTIFACT_S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	return NewS3Store(ctx, S3StoreConfig{
		Bucket:   bucket,
		Region:   region,
		Endpoint: os.Getenv("ARTIFACT_S3_ENDPOINT"),
		Prefix:   os.Getenv("ARTIFACT_S3_PREFIX"),
	})
}
