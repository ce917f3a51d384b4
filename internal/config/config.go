package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               int
	CacheType          string
	CacheDir           string
	CacheMemoryEntries int
	CacheSQLitePath    string
	Workers            int
	PresetsDir         string
	Warmup             bool
	WarmupWorkers      int
	VipsMaxCacheMB     int
	VipsConcurrency    int
	LogLevel           string
	LogFile            string
	AllowedOrigin      string
	MaxBodyBytes       int64
}

// Load reads the configuration from the environment, after merging in a
// .env file from the working directory when one exists. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cacheDir := getEnv("CACHE_DIR", "./texture_cache")

	cfg := &Config{
		Port:               getEnvInt("PORT", 8080),
		CacheType:          strings.ToLower(getEnv("CACHE", "file")),
		CacheDir:           cacheDir,
		CacheMemoryEntries: getEnvInt("CACHE_MEMORY_ENTRIES", 512),
		CacheSQLitePath:    getEnv("CACHE_SQLITE_PATH", filepath.Join(cacheDir, "textures.db")),
		Workers:            getEnvInt("WORKERS", runtime.GOMAXPROCS(0)),
		PresetsDir:         getEnv("PRESETS_DIR", "./presets"),
		Warmup:             getEnvBool("WARMUP", false),
		WarmupWorkers:      getEnvInt("WARMUP_WORKERS", 1),
		VipsMaxCacheMB:     getEnvInt("VIPS_MAX_CACHE_MB", 64),
		VipsConcurrency:    getEnvInt("VIPS_CONCURRENCY", 1),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", ""),
		MaxBodyBytes:       getEnvInt64("MAX_BODY_BYTES", 1<<20), // 1MB default
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
