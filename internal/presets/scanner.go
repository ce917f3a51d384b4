// Package presets loads named texture configs from a directory so they can
// be listed, generated by id and pre-generated at startup.
package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"texforge/internal/texture"
)

type Preset struct {
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Key      string         `json:"key"`
	Config   texture.Config `json:"config"`
}

type Scanner struct {
	dir     string
	logger  *zap.Logger
	mu      sync.RWMutex
	presets []Preset
}

func New(dir string, logger *zap.Logger) *Scanner {
	return &Scanner{
		dir:     dir,
		logger:  logger,
		presets: []Preset{},
	}
}

var extensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Scan replaces the loaded presets with the valid config files found in the
// directory. Invalid files are logged and skipped.
func (s *Scanner) Scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read presets directory: %w", err)
	}

	found := []Preset{}
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := s.getFilePath(entry.Name())
		ext := strings.ToLower(filepath.Ext(path))
		if !extensions[ext] {
			continue
		}

		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if prev, ok := seen[id]; ok {
			s.logger.Warn("Duplicate preset id, skipping",
				zap.String("id", id),
				zap.String("path", path),
				zap.String("kept", prev))
			continue
		}

		preset, err := s.loadPreset(path, id, ext)
		if err != nil {
			s.logger.Warn("Failed to load preset, skipping", zap.String("path", path), zap.Error(err))
			continue
		}

		seen[id] = entry.Name()
		found = append(found, *preset)
	}

	s.mu.Lock()
	s.presets = found
	s.mu.Unlock()

	s.logger.Info("Presets loaded", zap.String("dir", s.dir), zap.Int("count", len(found)))
	return nil
}

func (s *Scanner) loadPreset(path, id, ext string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := texture.Decode(ext, data)
	if err != nil {
		return nil, err
	}

	return &Preset{
		ID:       id,
		Filename: filepath.Base(path),
		Key:      cfg.CacheKey(),
		Config:   cfg,
	}, nil
}

// List returns the loaded presets ordered by file name.
func (s *Scanner) List() []Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

func (s *Scanner) Get(id string) (Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

func (s *Scanner) getFilePath(filename string) string {
	return filepath.Join(s.dir, filename)
}
