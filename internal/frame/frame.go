// Package frame holds the pixel-buffer helpers shared by the synthesis
// pipeline. Every stage hands frames around as *image.NRGBA.
package frame

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// New allocates a transparent width×height frame.
func New(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Filled allocates a frame filled with c.
func Filled(width, height int, c color.NRGBA) *image.NRGBA {
	img := New(width, height)
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// FromImage converts any image into a fresh NRGBA frame anchored at the origin.
// Premultiplied sources are clamped so that no color channel exceeds alpha
// before un-premultiplying; filters that work on premultiplied data can
// otherwise push a channel past its alpha and wrap around.
func FromImage(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := New(b.Dx(), b.Dy())

	rgba, ok := src.(*image.RGBA)
	if !ok {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		off := rgba.PixOffset(b.Min.X, b.Min.Y+y)
		s := rgba.Pix[off : off+b.Dx()*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(s); i += 4 {
			a := s[i+3]
			switch a {
			case 0:
				d[i], d[i+1], d[i+2], d[i+3] = 0, 0, 0, 0
			case 255:
				d[i], d[i+1], d[i+2], d[i+3] = s[i], s[i+1], s[i+2], 255
			default:
				d[i] = unpremultiply(s[i], a)
				d[i+1] = unpremultiply(s[i+1], a)
				d[i+2] = unpremultiply(s[i+2], a)
				d[i+3] = a
			}
		}
	}
	return dst
}

func unpremultiply(c, a uint8) uint8 {
	if c > a {
		c = a
	}
	return uint8((uint32(c)*255 + uint32(a)/2) / uint32(a))
}

// Over composites src over dst in place.
func Over(dst *image.NRGBA, src image.Image, offset image.Point) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min.Sub(offset), draw.Over)
}

// Luminance converts a frame to 8-bit luminance using ITU-R 601 weights.
// Alpha is ignored, matching how a grayscale conversion treats straight color.
func Luminance(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			r, g, bl := uint32(src.Pix[i]), uint32(src.Pix[i+1]), uint32(src.Pix[i+2])
			gray.Pix[y*gray.Stride+x] = uint8((299*r + 587*g + 114*bl + 500) / 1000)
		}
	}
	return gray
}

// MeanLuminance is the average of Luminance over every pixel of src,
// rounded to the nearest integer level. An empty frame has mean 0.
func MeanLuminance(src *image.NRGBA) float64 {
	gray := Luminance(src)
	if len(gray.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range gray.Pix {
		sum += uint64(v)
	}
	return math.Floor(float64(sum)/float64(len(gray.Pix)) + 0.5)
}

// Replicate builds an opaque frame whose three color channels all carry the
// red channel of src.
func Replicate(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			v := uint8(r >> 8)
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = v, v, v, 255
		}
	}
	return dst
}

// Opaque reports whether every pixel of img has full alpha.
func Opaque(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			return false
		}
	}
	return true
}

// Clamp limits v to [0,255].
func Clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
