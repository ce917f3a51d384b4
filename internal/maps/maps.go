// Package maps derives lighting maps (normal, specular, ambient occlusion)
// from a diffuse frame.
package maps

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"

	"texforge/internal/frame"
	"texforge/internal/postprocess"
)

// SpecularContrast is the contrast factor applied to luminance for specular maps.
const SpecularContrast = 2.0

// Normal encodes per-pixel surface normals derived from luminance gradients.
// Each component c of the unit normal (-dx, -dy, 1) is stored as
// round((c+1)/2·255), so flat regions come out as (128, 128, 255).
func Normal(diffuse *image.NRGBA) *image.NRGBA {
	gray := frame.Luminance(diffuse)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	lum := make([]float64, w*h)
	for i, v := range gray.Pix[:w*h] {
		lum[i] = float64(v) / 255.0
	}

	out := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := gradient(lum, w, h, x, y, 1, 0)
			dy := gradient(lum, w, h, x, y, 0, 1)

			nx, ny, nz := -dx, -dy, 1.0
			length := math.Sqrt(nx*nx + ny*ny + nz*nz)
			nx, ny, nz = nx/length, ny/length, nz/length

			i := out.PixOffset(x, y)
			out.Pix[i+0] = encodeComponent(nx)
			out.Pix[i+1] = encodeComponent(ny)
			out.Pix[i+2] = encodeComponent(nz)
			out.Pix[i+3] = 255
		}
	}
	return out
}

// gradient is a central difference in the interior and a one-sided
// difference at the borders; a single-sample axis has zero gradient.
func gradient(lum []float64, w, h, x, y, sx, sy int) float64 {
	n := w
	pos := x
	if sy == 1 {
		n = h
		pos = y
	}
	if n < 2 {
		return 0
	}

	at := func(p int) float64 {
		if sy == 1 {
			return lum[p*w+x]
		}
		return lum[y*w+p]
	}

	switch pos {
	case 0:
		return at(1) - at(0)
	case n - 1:
		return at(n-1) - at(n-2)
	default:
		return (at(pos+1) - at(pos-1)) / 2
	}
}

func encodeComponent(c float64) uint8 {
	return frame.Clamp(math.Round((c + 1) / 2 * 255))
}

// DecodeNormal maps an encoded normal pixel back to a vector in [-1,1]^3.
func DecodeNormal(r, g, b uint8) (float64, float64, float64) {
	dec := func(v uint8) float64 { return float64(v)/255*2 - 1 }
	return dec(r), dec(g), dec(b)
}

// Specular is the luminance with its contrast doubled around the mean
// luminance, replicated across channels.
func Specular(diffuse *image.NRGBA) *image.NRGBA {
	gray := frame.Replicate(frame.Luminance(diffuse))
	return postprocess.Contrast(gray, SpecularContrast)
}

// AmbientOcclusion is an edge-detected luminance, inverted so edges are dark
// and flat areas bright, replicated across channels.
func AmbientOcclusion(diffuse *image.NRGBA) *image.NRGBA {
	gray := frame.Luminance(diffuse)
	edges := effect.EdgeDetection(gray, 1)
	return frame.Replicate(effect.Invert(edges))
}
