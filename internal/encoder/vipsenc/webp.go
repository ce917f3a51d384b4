// Package vipsenc provides encoders backed by libvips. vips.Startup must have
// been called before any of them is used.
package vipsenc

import (
	"fmt"
	"image"

	"github.com/cshum/vipsgen/vips"

	"texforge/internal/encoder"
	"texforge/internal/texture"
)

// WebP encodes frames as lossless WebP. Frames are handed to vips as PNG,
// which keeps straight alpha intact across the boundary.
type WebP struct {
	// Effort is the libwebp CPU effort, 0..6.
	Effort int
}

func (WebP) Format() string { return texture.FormatWebP }

func (w WebP) Encode(img image.Image) ([]byte, error) {
	pngData, err := encoder.PNG{}.Encode(img)
	if err != nil {
		return nil, err
	}

	vimg, err := vips.NewPngloadBuffer(pngData, vips.DefaultPngloadBufferOptions())
	if err != nil {
		return nil, fmt.Errorf("vips load: %w", err)
	}
	defer vimg.Close()

	opts := vips.DefaultWebpsaveBufferOptions()
	opts.Lossless = true
	opts.Effort = w.Effort

	data, err := vimg.WebpsaveBuffer(opts)
	if err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return data, nil
}

func (WebP) Decode(data []byte) (image.Image, error) {
	vimg, err := vips.NewWebploadBuffer(data, vips.DefaultWebploadBufferOptions())
	if err != nil {
		return nil, fmt.Errorf("webp decode: %w", err)
	}
	defer vimg.Close()

	pngData, err := vimg.PngsaveBuffer(vips.DefaultPngsaveBufferOptions())
	if err != nil {
		return nil, fmt.Errorf("vips export: %w", err)
	}
	return encoder.PNG{}.Decode(pngData)
}

// Register adds every vips-backed encoder to r.
func Register(r *encoder.Registry) {
	r.Register(WebP{Effort: 4})
}
