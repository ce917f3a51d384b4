package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cshum/vipsgen/vips"
	"go.uber.org/zap"

	"texforge/internal/cache"
	"texforge/internal/config"
	"texforge/internal/encoder"
	"texforge/internal/encoder/vipsenc"
	"texforge/internal/generator"
	httphandlers "texforge/internal/http"
	"texforge/internal/logger"
	"texforge/internal/presets"
	"texforge/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	vipsConfig := &vips.Config{
		ConcurrencyLevel: cfg.VipsConcurrency,
		MaxCacheMem:      cfg.VipsMaxCacheMB * 1024 * 1024, // Convert MB to bytes
		MaxCacheFiles:    0,                                // Disable disk cache
		MaxCacheSize:     0,                                // Disable disk cache
		ReportLeaks:      false,
		CacheTrace:       false,
		VectorEnabled:    true,
	}

	// Map vips log levels to zap levels; info/debug are dropped.
	vips.SetLogging(func(domain string, level vips.LogLevel, message string) {
		if level >= vips.LogLevelError {
			log.Error("vips", zap.String("domain", domain), zap.Int("level", int(level)), zap.String("message", message))
		} else if level >= vips.LogLevelWarning {
			log.Warn("vips", zap.String("domain", domain), zap.Int("level", int(level)), zap.String("message", message))
		}
	}, vips.LogLevelError)

	vips.Startup(vipsConfig)
	defer vips.Shutdown()

	encoders := encoder.Default()
	vipsenc.Register(encoders)

	log.Info("VIPS initialized",
		zap.Int("max_cache_mb", cfg.VipsMaxCacheMB),
		zap.Int("concurrency", cfg.VipsConcurrency),
		zap.Strings("formats", encoders.Formats()),
	)

	log.Info("Starting texture service",
		zap.Int("port", cfg.Port),
		zap.String("cache", cfg.CacheType),
		zap.Int("workers", cfg.Workers),
	)

	textureCache, err := cache.NewCache(cfg.CacheType, cfg.CacheDir, cfg.CacheMemoryEntries, cfg.CacheSQLitePath, log)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if closer, ok := textureCache.(io.Closer); ok {
		defer closer.Close()
	}

	st := stats.New()
	gen := generator.New(textureCache, encoders, st, log, cfg.Workers)

	scanner := presets.New(cfg.PresetsDir, log)
	if err := scanner.Scan(); err != nil {
		log.Warn("Initial preset scan failed", zap.Error(err))
	}

	handlers := httphandlers.New(cfg, log, gen, scanner, st, textureCache)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Warmup {
		go warmupPresets(ctx, cfg.WarmupWorkers, scanner, gen, log)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.Routes(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// warmupPresets generates every preset once so their first request is a cache hit.
func warmupPresets(ctx context.Context, workerLimit int, scanner *presets.Scanner, gen *generator.Generator, log *zap.Logger) {
	list := scanner.List()
	if len(list) == 0 {
		return
	}

	log.Info("Starting preset warmup", zap.Int("presets", len(list)))

	// Worker pool size configured via env (defaults to 1)
	if workerLimit <= 0 {
		workerLimit = 1
	}

	workerChan := make(chan struct{}, workerLimit)
	var wg sync.WaitGroup

	for _, p := range list {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(p presets.Preset) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			out, err := gen.Run(ctx, p.Config)
			if err != nil {
				log.Warn("Warmup preset failed", zap.String("preset", p.ID), zap.Error(err))
				return
			}
			log.Debug("Warmed preset", zap.String("preset", p.ID), zap.Bool("cached", out.Cached))
		}(p)
	}

	wg.Wait()
	log.Info("Preset warmup completed")
}
