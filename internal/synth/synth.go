// Package synth renders single frames for each texture category.
package synth

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"texforge/internal/frame"
	"texforge/internal/palette"
	"texforge/internal/texture"
)

// DefaultFill is the flat color used for categories without a synthesizer.
var DefaultFill = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Request carries everything a synthesizer needs for one frame.
type Request struct {
	Config  texture.Config
	Palette palette.Palette
	Frame   int
	Rand    *rand.Rand
}

// Frame renders frame req.Frame of req.Config. The rng must belong to the
// caller; synthesizers never touch shared random state.
func Frame(req Request) (*image.NRGBA, error) {
	cfg := req.Config
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}

	switch cfg.Type {
	case texture.CategoryWall:
		return wall(req)
	case texture.CategorySprite, texture.CategoryAnimated:
		return sprite(req)
	case texture.CategoryParticle, texture.CategoryEffect:
		return particle(req)
	case texture.CategoryUI:
		return panel(req)
	case texture.CategoryWeapon:
		return weapon(req)
	case texture.CategoryProjectile:
		return projectile(req)
	default:
		return frame.Filled(cfg.Width, cfg.Height, DefaultFill), nil
	}
}
