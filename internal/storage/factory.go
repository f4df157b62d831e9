package storage

import (
	"fmt"
)

// Config selects and configures the storage backend.
type Config struct {
	Type string // "memory" or "s3"
	S3   S3Config
}

// NewStorage creates the configured ObjectStorage backend.
func NewStorage(cfg *Config) (ObjectStorage, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "s3":
		return NewS3Storage(&cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
