// Package texture defines the request schema of the generator: texture
// configs, their validation and cache keys, and the generated result document.
package texture

import (
	"fmt"
	"strings"

	"texforge/internal/palette"
)

// Category is the kind of asset to synthesize.
type Category string

const (
	CategoryWall       Category = "wall"
	CategorySprite     Category = "sprite"
	CategoryParticle   Category = "particle"
	CategoryUI         Category = "ui"
	CategoryWeapon     Category = "weapon"
	CategoryProjectile Category = "projectile"
	CategoryEffect     Category = "effect"
	CategoryAnimated   Category = "animated"
)

// Categories lists every category with a dedicated synthesizer.
var Categories = []Category{
	CategoryWall, CategorySprite, CategoryParticle, CategoryUI,
	CategoryWeapon, CategoryProjectile, CategoryEffect, CategoryAnimated,
}

// Known reports whether c has a dedicated synthesizer.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Quality is an ordinal tier that maps to a target resolution value.
type Quality string

const (
	QualityLow    Quality = "LOW"
	QualityMedium Quality = "MEDIUM"
	QualityHigh   Quality = "HIGH"
	QualityUltra  Quality = "ULTRA"
	QualityAAA    Quality = "AAA"
)

var qualityValues = map[Quality]int{
	QualityLow:    64,
	QualityMedium: 128,
	QualityHigh:   256,
	QualityUltra:  512,
	QualityAAA:    1024,
}

// Value returns the resolution value of the tier, or 0 for an unknown tier.
func (q Quality) Value() int {
	return qualityValues[q]
}

// ParseQuality accepts tier names case-insensitively.
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := qualityValues[q]; !ok {
		return "", fmt.Errorf("unknown quality %q (supported: LOW, MEDIUM, HIGH, ULTRA, AAA)", s)
	}
	return q, nil
}

// Output formats understood by the encoders.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Limits enforced at the boundary.
const (
	MaxDimension = 4096
	MaxFrames    = 120
)

const (
	DefaultQuality     = QualityHigh
	DefaultTheme       = palette.DefaultTheme
	DefaultFrames      = 1
	DefaultCompression = FormatPNG
)

// Config describes one generation request. Treat it as immutable once validated.
type Config struct {
	Type            Category `json:"texture_type" yaml:"texture_type"`
	Width           int      `json:"width" yaml:"width"`
	Height          int      `json:"height" yaml:"height"`
	Quality         Quality  `json:"quality" yaml:"quality"`
	Theme           string   `json:"theme" yaml:"theme"`
	AnimationFrames int      `json:"animation_frames" yaml:"animation_frames"`
	ColorPalette    []string `json:"color_palette,omitempty" yaml:"color_palette,omitempty"`
	Seed            *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	EnableNormalMap bool     `json:"enable_normal_map" yaml:"enable_normal_map"`
	EnableSpecular  bool     `json:"enable_specular" yaml:"enable_specular"`
	EnableAO        bool     `json:"enable_ao" yaml:"enable_ao"`
	Compression     string   `json:"compression" yaml:"compression"`
}

// NewConfig returns a config for the given category and size with every
// optional field at its default.
func NewConfig(category Category, width, height int) Config {
	return Config{
		Type:            category,
		Width:           width,
		Height:          height,
		Quality:         DefaultQuality,
		Theme:           DefaultTheme,
		AnimationFrames: DefaultFrames,
		Compression:     DefaultCompression,
	}
}

// WithSeed returns a copy of c with the seed set.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// Palette resolves the theme palette with any explicit overrides applied.
func (c Config) Palette() palette.Palette {
	p, err := palette.Resolve(c.Theme, c.ColorPalette)
	if err != nil {
		// Validate rejects malformed overrides, so only the theme applies here.
		return palette.ForTheme(c.Theme)
	}
	return p
}

// Validate checks every field and returns a *ValidationError for the first violation.
func (c Config) Validate() error {
	if strings.TrimSpace(string(c.Type)) == "" {
		return missingField("texture_type")
	}
	if c.Width <= 0 || c.Width > MaxDimension {
		return invalidField("width", "must be between 1 and %d, got %d", MaxDimension, c.Width)
	}
	if c.Height <= 0 || c.Height > MaxDimension {
		return invalidField("height", "must be between 1 and %d, got %d", MaxDimension, c.Height)
	}
	if c.Quality.Value() == 0 {
		return invalidField("quality", "unknown quality %q", string(c.Quality))
	}
	if c.AnimationFrames < 1 || c.AnimationFrames > MaxFrames {
		return invalidField("animation_frames", "must be between 1 and %d, got %d", MaxFrames, c.AnimationFrames)
	}
	if _, err := palette.Resolve(c.Theme, c.ColorPalette); err != nil {
		return invalidField("color_palette", "%v", err)
	}
	switch c.Compression {
	case FormatPNG, FormatWebP:
	default:
		return invalidField("compression", "unsupported format %q (supported: png, webp)", c.Compression)
	}
	return nil
}

// AnyMaps reports whether at least one derived map is requested.
func (c Config) AnyMaps() bool {
	return c.EnableNormalMap || c.EnableSpecular || c.EnableAO
}
