// Package postprocess applies the finishing passes every generated frame goes through.
//
// Both passes work on straight (non-premultiplied) color and carry alpha over
// untouched, so a translucent pixel keeps the hue it was drawn with.
package postprocess

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/convolution"

	"texforge/internal/frame"
	"texforge/internal/texture"
)

// sharpenKernel is the 3×3 sharpen filter: centre 32, every neighbour −2,
// divided by 16.
var sharpenKernel = &convolution.Kernel{
	Matrix: []float64{
		-2.0 / 16, -2.0 / 16, -2.0 / 16,
		-2.0 / 16, 32.0 / 16, -2.0 / 16,
		-2.0 / 16, -2.0 / 16, -2.0 / 16,
	},
	Width:  3,
	Height: 3,
}

// ContrastFactor returns the contrast multiplier for a quality tier:
// 1.0 + (value/256)·0.2, so higher tiers get proportionally more contrast.
func ContrastFactor(q texture.Quality) float64 {
	return 1.0 + (float64(q.Value())/256.0)*0.2
}

// Apply sharpens img and then enhances its contrast for the quality tier.
// The input is not modified.
func Apply(img *image.NRGBA, q texture.Quality) *image.NRGBA {
	return Contrast(Sharpen(img), ContrastFactor(q))
}

// Sharpen convolves the color channels of img with the 3×3 sharpen kernel.
// Borders repeat the edge pixels.
func Sharpen(img *image.NRGBA) *image.NRGBA {
	out := convolution.Convolve(opaque(img), sharpenKernel, &convolution.Options{KeepAlpha: true})
	return withAlphaOf(out, img)
}

// Contrast scales every color channel away from the frame's mean luminance:
// out = mean + factor·(in − mean), clipped to [0,255].
func Contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := frame.MeanLuminance(img)

	var lut [256]uint8
	for i := range lut {
		lut[i] = frame.Clamp(mean + factor*(float64(i)-mean))
	}

	out := adjust.Apply(opaque(img), func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	return withAlphaOf(out, img)
}

// opaque copies img with every alpha forced to 255, so bild's premultiplied
// view of it equals the straight color.
func opaque(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := frame.New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()*4]
		dst := out.Pix[y*out.Stride:][:b.Dx()*4]
		copy(dst, src)
		for i := 3; i < len(dst); i += 4 {
			dst[i] = 255
		}
	}
	return out
}

// withAlphaOf takes the color of an opaque filter result and the alpha of src.
func withAlphaOf(rgb *image.RGBA, src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := frame.New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		c := rgb.Pix[rgb.PixOffset(rgb.Rect.Min.X, rgb.Rect.Min.Y+y):][:b.Dx()*4]
		a := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()*4]
		dst := out.Pix[y*out.Stride:][:b.Dx()*4]
		for i := 0; i < len(dst); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c[i], c[i+1], c[i+2], a[i+3]
		}
	}
	return out
}
