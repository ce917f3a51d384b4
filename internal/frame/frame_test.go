package frame

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage_ClampsOverflowingPremultipliedChannels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// Channel above alpha: invalid premultiplied data a filter can produce.
	src.Pix = []uint8{210, 100, 0, 200, 10, 20, 30, 255}

	got := FromImage(src)
	if c := got.NRGBAAt(0, 0); c.R != 255 || c.A != 200 {
		t.Errorf("pixel 0 = %v, want R clamped to 255 with A 200", c)
	}
	if c := got.NRGBAAt(1, 0); c != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("opaque pixel = %v", c)
	}
}

func TestFromImage_SubImageOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(2, 2, color.RGBA{9, 9, 9, 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	got := FromImage(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.NRGBAAt(0, 0); c.R != 9 {
		t.Errorf("origin pixel = %v, want R 9", c)
	}
}

func TestLuminance(t *testing.T) {
	img := Filled(2, 2, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 0, 0, 255})
	gray := Luminance(img)
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("white luminance = %d", gray.GrayAt(0, 0).Y)
	}
	if gray.GrayAt(1, 1).Y != 76 {
		t.Errorf("red luminance = %d, want 76", gray.GrayAt(1, 1).Y)
	}
}

func TestMeanLuminance(t *testing.T) {
	img := Filled(4, 1, color.NRGBA{100, 100, 100, 255})
	img.SetNRGBA(3, 0, color.NRGBA{201, 201, 201, 0})
	// (100·3 + 201) / 4 = 125.25; alpha does not take part.
	if got := MeanLuminance(img); got != 125 {
		t.Errorf("MeanLuminance = %v, want 125", got)
	}
	if got := MeanLuminance(New(0, 0)); got != 0 {
		t.Errorf("empty MeanLuminance = %v, want 0", got)
	}
}

func TestReplicateAndOpaque(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.Pix = []uint8{0, 128, 255}
	rep := Replicate(gray)
	if !Opaque(rep) {
		t.Error("replicated frame must be opaque")
	}
	if c := rep.NRGBAAt(1, 0); c != (color.NRGBA{128, 128, 128, 255}) {
		t.Errorf("pixel = %v", c)
	}
	if Opaque(New(1, 1)) {
		t.Error("transparent frame reported opaque")
	}
}

func TestOver(t *testing.T) {
	dst := Filled(4, 4, color.NRGBA{0, 0, 255, 255})
	src := Filled(2, 2, color.NRGBA{255, 0, 0, 255})
	Over(dst, src, image.Pt(1, 1))
	if dst.NRGBAAt(0, 0).B != 255 {
		t.Error("pixel outside offset source changed")
	}
	if c := dst.NRGBAAt(2, 2); c.R != 255 || c.B != 0 {
		t.Errorf("pixel under source = %v", c)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-3) != 0 || Clamp(300) != 255 || Clamp(12.9) != 12 {
		t.Error("Clamp out of range")
	}
}
