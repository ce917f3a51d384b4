package synth

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

const (
	panelAlpha  = 180
	panelBorder = 3
)

// panel is a semi-opaque dark panel with an accent border inset from the edges.
func panel(req Request) (*image.NRGBA, error) {
	w, h := req.Config.Width, req.Config.Height

	dc := gg.NewContext(w, h)
	defer dc.Close()
	// gg truncates channel floats, so aim at the middle of the byte.
	dc.ClearWithColor(gg.RGBA{A: (panelAlpha + 0.5) / 255})

	// The stroke is centered on the path, so the path sits half a border
	// width inside the inset.
	inset := float64(panelBorder) + float64(panelBorder)/2
	rw := float64(w) - 2*inset + 1
	rh := float64(h) - 2*inset + 1
	if rw > 0 && rh > 0 {
		dc.SetColor(req.Palette.Accent)
		dc.SetLineWidth(panelBorder)
		dc.DrawRectangle(inset, inset, rw, rh)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke border: %w", err)
		}
	}

	return snapshot(dc), nil
}
