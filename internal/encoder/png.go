package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"texforge/internal/texture"
)

// PNG is the default lossless encoder.
type PNG struct {
	// Level is the zlib effort; the zero value is png.DefaultCompression.
	Level png.CompressionLevel
}

func (PNG) Format() string { return texture.FormatPNG }

func (p PNG) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: p.Level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (PNG) Decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("png decode: %w", err)
	}
	return img, nil
}
