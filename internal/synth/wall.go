package synth

import (
	"image"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"texforge/internal/frame"
	"texforge/internal/noise"
)

const (
	wallNoiseScale = 0.1
	wallSpeckles   = 20
	wallJitter     = 10
)

// wall modulates the primary color with the noise field, then scatters
// translucent accent speckles and weathers every channel slightly.
func wall(req Request) (*image.NRGBA, error) {
	w, h := req.Config.Width, req.Config.Height
	base := req.Palette.Primary
	field := noise.New(w, h, wallNoiseScale)

	img := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f := 0.8 + 0.4*field.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = frame.Clamp(float64(base.R) * f)
			img.Pix[i+1] = frame.Clamp(float64(base.G) * f)
			img.Pix[i+2] = frame.Clamp(float64(base.B) * f)
			img.Pix[i+3] = 255
		}
	}

	dc := gg.NewContextForImage(img)
	defer dc.Close()

	for n := 0; n < wallSpeckles; n++ {
		x := req.Rand.IntN(w)
		y := req.Rand.IntN(h)
		size := 2 + req.Rand.IntN(3)
		alpha := 20 + req.Rand.IntN(40)
		if err := fillBox(dc, x, y, x+size, y+size, withAlpha(req.Palette.Accent, alpha)); err != nil {
			return nil, err
		}
	}

	img = snapshot(dc)
	weather(img, req.Rand)
	return img, nil
}

// weather adds independent per-channel jitter in [-10, 10) and forces the
// frame opaque.
func weather(img *image.NRGBA, rng *rand.Rand) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(img.Pix[i+c]) + rng.IntN(2*wallJitter) - wallJitter
			img.Pix[i+c] = frame.Clamp(float64(v))
		}
		img.Pix[i+3] = 255
	}
}
