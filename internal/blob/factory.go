package blob

import (
	"context"
	"strings"

	"tcrdcore/internal/errors"
)

// Config selects and configures the blob backend holding family files.
type Config struct {
	Driver string   `mapstructure:"driver"` // fs|s3|memory (default fs)
	FSRoot string   `mapstructure:"fs_root"`
	S3     S3Config `mapstructure:"s3"`
}

// Open selects a blob.Store implementation from cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownDriver, "blob driver %q", driver),
			"use one of fs, s3, memory")
	}
}
