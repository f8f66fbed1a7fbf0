package app

import (
	"context"
	"fmt"

	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/gcp"
)

var newBucketService = gcp.NewBucketService

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidConfig StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorConnectFailed StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code  StorageBootstrapErrorCode
	Mode  gcp.ObjectStorageMode
	Cause error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBucketService returns nil with no error when object storage is
// disabled; course covers are then skipped.
func resolveBucketService(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (gcp.BucketService, error) {
	if cfg.Mode == gcp.ObjectStorageModeDisabled || cfg.Mode == "" {
		log.Info("Object storage disabled; course covers will not be generated")
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		bootErr := &StorageBootstrapError{Code: StorageBootstrapErrorInvalidConfig, Mode: cfg.Mode, Cause: err}
		log.Error("Object storage config rejected", "mode", cfg.Mode, "error_code", bootErr.Code, "error", err)
		return nil, bootErr
	}

	log.Info("Selecting object storage provider", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	bucket, err := newBucketService(ctx, log, cfg)
	if err != nil {
		bootErr := &StorageBootstrapError{Code: StorageBootstrapErrorConnectFailed, Mode: cfg.Mode, Cause: err}
		log.Error("Object storage provider bootstrap failed", "mode", cfg.Mode, "error_code", bootErr.Code, "error", err)
		return nil, bootErr
	}
	return bucket, nil
}
