package postprocess

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"texforge/internal/frame"
	"texforge/internal/texture"
)

func TestContrastFactor(t *testing.T) {
	tests := []struct {
		q    texture.Quality
		want float64
	}{
		{texture.QualityLow, 1.05},
		{texture.QualityMedium, 1.1},
		{texture.QualityHigh, 1.2},
		{texture.QualityUltra, 1.4},
		{texture.QualityAAA, 1.8},
	}
	for _, tt := range tests {
		if got := ContrastFactor(tt.q); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ContrastFactor(%s) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestApply_PreservesSizeAndInput(t *testing.T) {
	img := frame.Filled(16, 12, color.NRGBA{200, 100, 50, 255})
	img.SetNRGBA(8, 6, color.NRGBA{10, 10, 10, 255})
	before := append([]uint8(nil), img.Pix...)

	out := Apply(img, texture.QualityHigh)
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 12 {
		t.Errorf("bounds = %v", out.Bounds())
	}
	if !bytes.Equal(before, img.Pix) {
		t.Error("Apply modified its input")
	}
}

func TestApply_Deterministic(t *testing.T) {
	img := frame.Filled(8, 8, color.NRGBA{90, 140, 200, 255})
	img.SetNRGBA(3, 3, color.NRGBA{255, 255, 255, 255})

	a := Apply(img, texture.QualityUltra)
	b := Apply(img, texture.QualityUltra)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("post-processing is not deterministic")
	}
}

func halves(w, h int, left, right uint8) *image.NRGBA {
	img := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := left
			if x >= w/2 {
				v = right
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func TestApply_HigherQualityMoreContrast(t *testing.T) {
	img := halves(16, 8, 100, 200)

	low := Apply(img, texture.QualityLow).NRGBAAt(13, 4)
	aaa := Apply(img, texture.QualityAAA).NRGBAAt(13, 4)
	if low.R != 202 || aaa.R != 240 {
		t.Errorf("bright side: low %v, aaa %v, want R 202 and 240", low, aaa)
	}
	if aaa.A != 255 {
		t.Errorf("opaque frame lost alpha: %v", aaa)
	}
}

func TestApply_TranslucentKeepsColor(t *testing.T) {
	c := color.NRGBA{125, 102, 8, 255}
	want := Apply(frame.Filled(16, 16, c), texture.QualityHigh).NRGBAAt(8, 8)

	for _, a := range []uint8{200, 128, 64, 32, 1} {
		c.A = a
		got := Apply(frame.Filled(16, 16, c), texture.QualityHigh).NRGBAAt(8, 8)
		if got.R != want.R || got.G != want.G || got.B != want.B {
			t.Errorf("alpha %d: color %v, want %v", a, got, want)
		}
		if got.A != a {
			t.Errorf("alpha %d: got alpha %d", a, got.A)
		}
	}
}

func TestContrast_PivotsOnMeanLuminance(t *testing.T) {
	out := Contrast(halves(16, 4, 100, 200), 1.5)

	// mean 150: 150 ± 1.5·50
	if got := out.NRGBAAt(2, 1).R; got != 75 {
		t.Errorf("dark side = %d, want 75", got)
	}
	if got := out.NRGBAAt(12, 1).R; got != 225 {
		t.Errorf("bright side = %d, want 225", got)
	}
}

func TestContrast_UniformFrameUnchanged(t *testing.T) {
	img := frame.Filled(6, 6, color.NRGBA{230, 230, 230, 255})
	if got := Contrast(img, 1.8).NRGBAAt(3, 3); got != (color.NRGBA{230, 230, 230, 255}) {
		t.Errorf("uniform frame = %v, want unchanged", got)
	}
}

func TestSharpen_FullNeighbourhood(t *testing.T) {
	img := frame.Filled(5, 5, color.NRGBA{100, 100, 100, 255})
	img.SetNRGBA(2, 2, color.NRGBA{150, 150, 150, 255})

	out := Sharpen(img)
	// centre: 2·150 − 8·100/8; neighbours, diagonals included: 2·100 − (7·100+150)/8
	tests := []struct {
		x, y int
		want uint8
	}{
		{2, 2, 200},
		{2, 1, 93},
		{1, 1, 93},
		{0, 0, 100},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y).R; got != tt.want {
			t.Errorf("pixel (%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}
