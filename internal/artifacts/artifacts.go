// Package artifacts keeps the uploaded résumé files next to the extracted text.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

const (
	DriverFS     = "fs"
	DriverMemory = "memory"
	DriverS3     = "s3"
)

var ErrInvalidKey = errors.New("invalid artifact key")

// Store persists binary artifacts by key. Delete of a missing key is not an error.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return strings.TrimPrefix(cleaned, "/"), nil
}

// Config selects and configures an artifact driver.
type Config struct {
	Driver string
	Dir    string
	S3     S3Config
}

// Open builds the artifact store for cfg.Driver. The memory driver keeps files
// in an in-process filesystem and loses them on exit.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverFS:
		return NewFS(cfg.Dir)
	case DriverMemory:
		return NewFSWith(afero.NewMemMapFs(), "/artifacts")
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported artifact driver: %s", cfg.Driver)
	}
}
