// Package encoder turns frames into the bytes stored in a result document.
// Frames travel as base64 text so a result stays a plain JSON document.
package encoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
)

// ErrUnsupportedFormat is returned for a format no encoder is registered for.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Encoder converts between an image and its serialized form.
type Encoder interface {
	Format() string
	Encode(img image.Image) ([]byte, error)
	Decode(data []byte) (image.Image, error)
}

// Registry maps format names to encoders. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry returns a registry holding the given encoders.
func NewRegistry(encoders ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, e := range encoders {
		r.Register(e)
	}
	return r
}

// Default returns a registry with the built-in PNG encoder.
func Default() *Registry {
	return NewRegistry(PNG{})
}

// Register adds e, replacing any encoder for the same format.
func (r *Registry) Register(e Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[e.Format()] = e
}

func (r *Registry) Get(format string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return e, nil
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.encoders))
	for f := range r.encoders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// EncodeString encodes img and returns it as standard base64.
func EncodeString(e Encoder, img image.Image) (string, error) {
	data, err := e.Encode(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeString reverses EncodeString.
func DecodeString(e Encoder, s string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return e.Decode(data)
}
