package texture

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// CacheKey derives the content hash of the config: SHA-256 over a JSON
// document of every field, defaults included, with keys in sorted order.
// Configs that are equal field-for-field always produce the same key.
func (c Config) CacheKey() string {
	var palette []string
	if len(c.ColorPalette) > 0 {
		palette = c.ColorPalette
	}

	// encoding/json writes map keys in sorted order.
	doc := map[string]interface{}{
		"animation_frames":  c.AnimationFrames,
		"color_palette":     palette,
		"compression":       c.Compression,
		"enable_ao":         c.EnableAO,
		"enable_normal_map": c.EnableNormalMap,
		"enable_specular":   c.EnableSpecular,
		"height":            c.Height,
		"quality":           string(c.Quality),
		"seed":              c.Seed,
		"texture_type":      string(c.Type),
		"theme":             c.Theme,
		"width":             c.Width,
	}

	// Marshal cannot fail for these field types.
	data, _ := json.Marshal(doc)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ETag returns a short tag derived from the cache key.
func ETag(key string) string {
	if len(key) < 16 {
		return key
	}
	return key[:16]
}
