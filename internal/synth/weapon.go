package synth

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/gogpu/gg"

	"texforge/internal/frame"
)

const (
	highlightBrightness = 0.3
	highlightBlend      = 0.3
)

// weaponOutline is the silhouette in fractions of the frame size.
var weaponOutline = []point{
	{0.1, 0.5},
	{0.5, 0.3},
	{0.9, 0.5},
	{0.9, 0.7},
	{0.5, 0.5},
	{0.1, 0.7},
}

// weapon fills the silhouette with primary, outlines it with accent and
// blends in a brightened copy as a highlight pass.
func weapon(req Request) (*image.NRGBA, error) {
	w, h := float64(req.Config.Width), float64(req.Config.Height)

	pts := make([]point, len(weaponOutline))
	for i, p := range weaponOutline {
		pts[i] = point{p.X * w, p.Y * h}
	}

	dc := gg.NewContext(req.Config.Width, req.Config.Height)
	defer dc.Close()

	if err := fillPolygon(dc, pts, req.Palette.Primary); err != nil {
		return nil, err
	}
	dc.SetColor(req.Palette.Accent)
	dc.SetLineWidth(1)
	tracePolygon(dc, pts)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("stroke outline: %w", err)
	}

	base := dc.Image()
	bright := adjust.Brightness(base, highlightBrightness)
	return frame.FromImage(blend.Opacity(base, bright, highlightBlend)), nil
}
