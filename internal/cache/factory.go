package cache

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Backend names accepted by NewCache.
const (
	TypeFile     = "file"
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypeDisabled = "disabled"
)

// NewCache creates a cache instance based on the cache type. An empty
// sqlitePath places the database inside cacheDir.
func NewCache(cacheType, cacheDir string, memoryEntries int, sqlitePath string, log *zap.Logger) (Cache, error) {
	switch cacheType {
	case TypeMemory:
		log.Info("Using memory cache", zap.Int("max_entries", memoryEntries))
		return NewMemoryCache(memoryEntries), nil
	case TypeFile:
		log.Info("Using file cache", zap.String("cache_dir", cacheDir))
		return NewFileCache(cacheDir, log)
	case TypeSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(cacheDir, "textures.db")
		}
		if err := ensureDir(filepath.Dir(sqlitePath)); err != nil {
			return nil, err
		}
		log.Info("Using sqlite cache", zap.String("path", sqlitePath))
		return NewSQLiteCache(sqlitePath, log)
	case TypeDisabled:
		log.Info("Cache disabled")
		return NewNoopCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: file, memory, sqlite, disabled)", cacheType)
	}
}
