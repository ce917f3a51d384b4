package texture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawConfig mirrors Config with pointer fields so absent keys can be told
// apart from zero values.
type rawConfig struct {
	TextureType     *string  `json:"texture_type" yaml:"texture_type"`
	Width           *int     `json:"width" yaml:"width"`
	Height          *int     `json:"height" yaml:"height"`
	Quality         *string  `json:"quality" yaml:"quality"`
	Theme           *string  `json:"theme" yaml:"theme"`
	AnimationFrames *int     `json:"animation_frames" yaml:"animation_frames"`
	ColorPalette    []string `json:"color_palette" yaml:"color_palette"`
	Seed            *int64   `json:"seed" yaml:"seed"`
	EnableNormalMap *bool    `json:"enable_normal_map" yaml:"enable_normal_map"`
	EnableSpecular  *bool    `json:"enable_specular" yaml:"enable_specular"`
	EnableAO        *bool    `json:"enable_ao" yaml:"enable_ao"`
	Compression     *string  `json:"compression" yaml:"compression"`
}

// DecodeJSON reads one config document, rejecting unknown fields and
// missing required fields.
func DecodeJSON(r io.Reader) (Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		return Config{}, jsonError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Config{}, &ValidationError{Message: "unexpected data after config document"}
	}
	return raw.build()
}

// DecodeYAML reads one config document with the same strictness as DecodeJSON.
func DecodeYAML(data []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, &ValidationError{Message: "empty config document"}
		}
		return Config{}, &ValidationError{Message: err.Error()}
	}
	return raw.build()
}

// Decode picks the decoder from a file extension (.json, .yaml, .yml).
func Decode(ext string, data []byte) (Config, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return DecodeJSON(bytes.NewReader(data))
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func jsonError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return invalidField(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return invalidField(field, "unknown field")
	}
	if errors.Is(err, io.EOF) {
		return &ValidationError{Message: "empty config document"}
	}
	return &ValidationError{Message: err.Error()}
}

func (r rawConfig) build() (Config, error) {
	if r.TextureType == nil {
		return Config{}, missingField("texture_type")
	}
	if r.Width == nil {
		return Config{}, missingField("width")
	}
	if r.Height == nil {
		return Config{}, missingField("height")
	}

	cfg := NewConfig(Category(strings.ToLower(strings.TrimSpace(*r.TextureType))), *r.Width, *r.Height)

	if r.Quality != nil {
		q, err := ParseQuality(*r.Quality)
		if err != nil {
			return Config{}, invalidField("quality", "%v", err)
		}
		cfg.Quality = q
	}
	if r.Theme != nil && strings.TrimSpace(*r.Theme) != "" {
		cfg.Theme = strings.TrimSpace(*r.Theme)
	}
	if r.AnimationFrames != nil {
		cfg.AnimationFrames = *r.AnimationFrames
	}
	if len(r.ColorPalette) > 0 {
		cfg.ColorPalette = append([]string(nil), r.ColorPalette...)
	}
	if r.Seed != nil {
		cfg = cfg.WithSeed(*r.Seed)
	}
	if r.EnableNormalMap != nil {
		cfg.EnableNormalMap = *r.EnableNormalMap
	}
	if r.EnableSpecular != nil {
		cfg.EnableSpecular = *r.EnableSpecular
	}
	if r.EnableAO != nil {
		cfg.EnableAO = *r.EnableAO
	}
	if r.Compression != nil {
		cfg.Compression = strings.ToLower(strings.TrimSpace(*r.Compression))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
