package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"texforge/internal/texture"
)

const fileExt = ".json"

// FileCache implements file-based cache.
// Structure: {cacheDir}/{key[0:2]}/{key}.json
type FileCache struct {
	cacheDir string
	log      *zap.Logger
}

func NewFileCache(cacheDir string, log *zap.Logger) (*FileCache, error) {
	if err := ensureDir(cacheDir); err != nil {
		return nil, err
	}

	return &FileCache{
		cacheDir: cacheDir,
		log:      log,
	}, nil
}

// buildFilePath shards entries by the first two hex digits of the key.
func (c *FileCache) buildFilePath(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(c.cacheDir, key[:2], key+fileExt), nil
}

func (c *FileCache) Lookup(ctx context.Context, key string) (*texture.Result, bool) {
	filePath, err := c.buildFilePath(key)
	if err != nil {
		c.log.Warn("Cache lookup rejected", zap.Error(err))
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result texture.Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.discard(key, filePath, err)
		return nil, false
	}
	if err := result.Check(); err != nil {
		c.discard(key, filePath, err)
		return nil, false
	}

	return &result, true
}

// discard removes an unreadable entry so the next store can replace it.
func (c *FileCache) discard(key, filePath string, cause error) {
	c.log.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(cause))
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.log.Warn("Failed to remove corrupt cache entry", zap.String("key", key), zap.Error(err))
	}
}

func (c *FileCache) Store(ctx context.Context, key string, result *texture.Result) {
	if err := c.write(key, result); err != nil {
		c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *FileCache) write(key string, result *texture.Result) error {
	filePath, err := c.buildFilePath(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write atomically: readers see either the old entry or the complete new one.
	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (c *FileCache) Has(ctx context.Context, key string) bool {
	filePath, err := c.buildFilePath(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(filePath)
	return err == nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	if err := os.RemoveAll(c.cacheDir); err != nil {
		return fmt.Errorf("failed to clear cache directory: %w", err)
	}
	return os.MkdirAll(c.cacheDir, 0755)
}

func (c *FileCache) Len(ctx context.Context) int {
	n := 0
	err := filepath.WalkDir(c.cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), fileExt) {
			n++
		}
		return nil
	})
	if err != nil {
		c.log.Warn("Failed to count cache entries", zap.Error(err))
	}
	return n
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

func validKey(key string) bool {
	if len(key) != 64 {
		return false
	}
	for _, r := range key {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
