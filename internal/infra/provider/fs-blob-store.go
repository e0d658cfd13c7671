package provider

import (
	"context"
	"fmt"
	"interview-service/internal/infra/logger"
	"os"
	"path/filepath"
)

// FsBlobStore keeps recording blobs on local disk under a root
// directory, one file per object key.
type FsBlobStore struct {
	Logger  *logger.Logger
	RootDir string
}

func NewFsBlobStore(logger *logger.Logger, rootDir string) *FsBlobStore {
	return &FsBlobStore{Logger: logger, RootDir: rootDir}
}

func (bs *FsBlobStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(bs.RootDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating blob directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing blob %s: %w", key, err)
	}

	bs.Logger.Debug(fmt.Sprintf("Stored recording blob %s (%d bytes)", key, len(data)))
	return key, nil
}
