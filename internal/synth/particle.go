package synth

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"

	"texforge/internal/frame"
)

const particleBlur = 3.0

// progress maps a frame index onto [0,1] across the animation.
func progress(frameIndex, frames int) float64 {
	return float64(frameIndex) / float64(max(1, frames-1))
}

// particle paints concentric accent rings from the outer radius inward.
// The radius grows and the alpha fades as the animation advances.
// Rings are centred on the frame, not at (w/2, w/2), and their full radius is
// min(w,h)/2, so wide or tall frames are not clipped.
func particle(req Request) (*image.NRGBA, error) {
	w, h := req.Config.Width, req.Config.Height
	t := progress(req.Frame, req.Config.AnimationFrames)

	center := min(w, h) / 2
	radius := int(float64(center) * (0.3 + 0.7*t))
	alpha := int(255 * (1 - t))

	dc := gg.NewContext(w, h)
	defer dc.Close()

	cx, cy := float64(w)/2, float64(h)/2
	for r := radius; r > 0; r-- {
		ringAlpha := int(float64(alpha) * float64(r) / float64(radius))
		if err := fillCircle(dc, cx, cy, float64(r), withAlpha(req.Palette.Accent, ringAlpha)); err != nil {
			return nil, err
		}
	}

	return frame.FromImage(blur.Gaussian(dc.Image(), particleBlur)), nil
}

// projectile paints primary-colored rings stepping inward by 2px with alpha
// proportional to the ring radius, which reads as a glow.
// Like particle it is centred on the frame with outer radius min(w,h)/2.
func projectile(req Request) (*image.NRGBA, error) {
	w, h := req.Config.Width, req.Config.Height
	center := min(w, h) / 2

	dc := gg.NewContext(w, h)
	defer dc.Close()

	cx, cy := float64(w)/2, float64(h)/2
	for r := center; r > 0; r -= 2 {
		alpha := 255 * r / center
		if err := fillCircle(dc, cx, cy, float64(r), withAlpha(req.Palette.Primary, alpha)); err != nil {
			return nil, err
		}
	}

	return snapshot(dc), nil
}
