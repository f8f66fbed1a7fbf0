package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeDisabled    ObjectStorageMode = "disabled"
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type BucketConfig struct {
	Mode          ObjectStorageMode
	Bucket        string
	CDNDomain     string
	EmulatorHost  string
	PublicBaseURL string
}

func ParseObjectStorageMode(raw string) (ObjectStorageMode, error) {
	switch mode := ObjectStorageMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", ObjectStorageModeDisabled:
		return ObjectStorageModeDisabled, nil
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid OBJECT_STORAGE_MODE %q (want disabled, gcs or gcs_emulator)", raw)
	}
}

func (cfg BucketConfig) Validate() error {
	if cfg.Mode == ObjectStorageModeDisabled {
		return nil
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return fmt.Errorf("missing COVER_GCS_BUCKET_NAME")
	}
	if cfg.Mode == ObjectStorageModeGCSEmulator {
		host := strings.TrimSpace(cfg.EmulatorHost)
		if host == "" {
			return fmt.Errorf("missing STORAGE_EMULATOR_HOST for gcs_emulator mode")
		}
		u, err := url.Parse(host)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST %q; expected absolute url like http://localhost:4443", host)
		}
	}
	if base := strings.TrimSpace(cfg.PublicBaseURL); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL %q", base)
		}
	}
	return nil
}
