package synth

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"

	"texforge/internal/frame"
)

const (
	shadowAlpha  = 80
	shadowBlur   = 5.0
	shadowOffset = 2
)

var (
	eyeWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	pupil    = color.NRGBA{A: 255}
)

// sprite draws a cat: body, head, two ears, two eyes and two pupils. The
// whole figure bounces with the frame index while the ears wiggle.
func sprite(req Request) (*image.NRGBA, error) {
	w, h := req.Config.Width, req.Config.Height
	body := req.Palette.Secondary
	f := float64(req.Frame)

	bounce := int(math.Sin(f*0.5) * 5)
	earOffset := 2 + int(math.Sin(f*0.3)*3)

	cx, cy := w/2, h/2
	bodyR := w / 3
	headR := w / 4
	headY := cy - bodyR/2

	dc := gg.NewContext(w, h)
	defer dc.Close()

	if err := fillBox(dc, cx-bodyR, cy-bodyR+bounce, cx+bodyR, cy+bodyR+bounce, body); err != nil {
		return nil, err
	}
	if err := fillBox(dc, cx-headR, headY-headR+bounce, cx+headR, headY+headR+bounce, body); err != nil {
		return nil, err
	}

	for _, side := range []int{-1, 1} {
		ear := []point{
			{float64(cx + side*headR/2), float64(headY - headR + bounce)},
			{float64(cx + side*headR), float64(headY - headR - earOffset + bounce)},
			{float64(cx + side*headR/4), float64(headY - headR/2 + bounce)},
		}
		if err := fillPolygon(dc, ear, body); err != nil {
			return nil, err
		}
	}

	eye := w / 16
	iris := eye / 2
	for _, side := range []int{-1, 1} {
		ex := cx + side*headR/2
		ey := headY + bounce
		if err := fillBox(dc, ex-eye, ey-eye, ex+eye, ey+eye, eyeWhite); err != nil {
			return nil, err
		}
		if err := fillBox(dc, ex-iris, ey-iris, ex+iris, ey+iris, pupil); err != nil {
			return nil, err
		}
	}

	return dropShadow(snapshot(dc)), nil
}

// dropShadow composites img over a blurred, offset silhouette of itself.
// Only drawn pixels cast a shadow; the transparent background does not darken
// the whole frame.
func dropShadow(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	silhouette := frame.New(b.Dx(), b.Dy())
	for i := 3; i < len(img.Pix); i += 4 {
		silhouette.Pix[i] = uint8(uint32(img.Pix[i]) * shadowAlpha / 255)
	}

	soft := blur.Gaussian(silhouette, shadowBlur)
	out := frame.FromImage(transform.Translate(soft, shadowOffset, shadowOffset))
	frame.Over(out, img, image.Point{})
	return out
}
