package synth

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"texforge/internal/frame"
)

type point struct{ X, Y float64 }

func withAlpha(c color.NRGBA, alpha int) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 255 {
		alpha = 255
	}
	c.A = uint8(alpha)
	return c
}

// fillBox fills the ellipse inscribed in the box [x0,x1]×[y0,y1].
func fillBox(dc *gg.Context, x0, y0, x1, y1 int, c color.NRGBA) error {
	if x1 <= x0 || y1 <= y0 {
		return nil
	}
	dc.SetColor(c)
	dc.DrawEllipse(float64(x0+x1)/2, float64(y0+y1)/2, float64(x1-x0)/2, float64(y1-y0)/2)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill ellipse: %w", err)
	}
	return nil
}

func fillCircle(dc *gg.Context, cx, cy, r float64, c color.NRGBA) error {
	if r <= 0 {
		return nil
	}
	dc.SetColor(c)
	dc.DrawCircle(cx, cy, r)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill circle: %w", err)
	}
	return nil
}

func tracePolygon(dc *gg.Context, pts []point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

func fillPolygon(dc *gg.Context, pts []point, c color.NRGBA) error {
	if len(pts) < 3 {
		return nil
	}
	dc.SetColor(c)
	tracePolygon(dc, pts)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill polygon: %w", err)
	}
	return nil
}

func snapshot(dc *gg.Context) *image.NRGBA {
	return frame.FromImage(dc.Image())
}
