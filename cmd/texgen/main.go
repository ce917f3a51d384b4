// Command texgen generates one texture config from a YAML or JSON file and
// writes every frame to disk.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cshum/vipsgen/vips"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"texforge/internal/cache"
	"texforge/internal/encoder"
	"texforge/internal/encoder/vipsenc"
	"texforge/internal/generator"
	"texforge/internal/logger"
	"texforge/internal/stats"
	"texforge/internal/texture"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "texgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("texgen", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "texture config file (.yaml, .yml or .json)")
	outDir := fs.String("out", ".", "directory for the generated images")
	cacheDir := fs.String("cache", "./texture_cache", "file cache directory; empty disables caching")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		fs.Usage()
		return fmt.Errorf("-config is required")
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		return err
	}
	cfg, err := texture.Decode(filepath.Ext(*configPath), data)
	if err != nil {
		return err
	}

	log, err := logger.New(*logLevel, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	encoders := encoder.Default()
	if cfg.Compression == texture.FormatWebP {
		vips.Startup(nil)
		defer vips.Shutdown()
		vipsenc.Register(encoders)
	}

	cacheType := cache.TypeFile
	if *cacheDir == "" {
		cacheType = cache.TypeDisabled
	}
	c, err := cache.NewCache(cacheType, *cacheDir, 0, "", log)
	if err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(out, "Generating %s %dx%d (%d frames, %s)\n",
		cfg.Type, cfg.Width, cfg.Height, cfg.AnimationFrames, cfg.Quality)

	gen := generator.New(c, encoders, stats.New(), log, 0)
	result, err := gen.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	written, err := writeResult(*outDir, result.Result)
	if err != nil {
		return err
	}

	dim := color.New(color.FgHiBlack)
	for _, path := range written {
		dim.Fprintf(out, "  %s\n", path)
	}

	status := "generated"
	if result.Cached {
		status = "from cache"
	}
	color.New(color.FgGreen, color.Bold).Fprintf(out, "Wrote %d files (%s, key %s)\n",
		len(written), status, texture.ETag(result.Key))

	log.Debug("texgen finished", zap.String("key", result.Key), zap.Int("files", len(written)))
	return nil
}

// writeResult writes each encoded frame as <type>_<map>_<frame>.<ext>.
func writeResult(dir string, res *texture.Result) ([]string, error) {
	sets := []struct {
		name   string
		frames []string
	}{
		{"diffuse", res.Diffuse},
		{"normal", res.Normal},
		{"specular", res.Specular},
		{"ao", res.AO},
	}

	var written []string
	for _, set := range sets {
		for i, frame := range set.frames {
			data, err := base64.StdEncoding.DecodeString(frame)
			if err != nil {
				return written, fmt.Errorf("%s frame %d: %w", set.name, i, err)
			}

			name := fmt.Sprintf("%s_%s_%d.%s", res.Metadata.Type, set.name, i, res.Metadata.Format)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}
