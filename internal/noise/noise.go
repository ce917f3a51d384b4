// Package noise synthesizes deterministic 2D scalar fields from summed
// sinusoidal octaves.
package noise

import "math"

// Octaves is the number of layers summed into a field.
const Octaves = 4

// Field is a row-major height×width grid of values in [0,1].
type Field struct {
	Width  int
	Height int
	Values []float64
}

// At returns the value at column x, row y.
func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// New builds a field whose coordinates are the pixel indices multiplied by
// scale. Each octave adds amp·sin(x·freq)·cos(y·freq), halving amp and
// doubling freq. The sum is min-max normalized; a constant sum yields 0.5
// everywhere.
func New(width, height int, scale float64) *Field {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	values := make([]float64, width*height)
	minV, maxV := math.Inf(1), math.Inf(-1)

	for row := 0; row < height; row++ {
		y := float64(row) * scale
		for col := 0; col < width; col++ {
			x := float64(col) * scale

			var sum float64
			amplitude, frequency := 1.0, 1.0
			for o := 0; o < Octaves; o++ {
				sum += amplitude * math.Sin(x*frequency) * math.Cos(y*frequency)
				amplitude *= 0.5
				frequency *= 2.0
			}

			values[row*width+col] = sum
			minV = math.Min(minV, sum)
			maxV = math.Max(maxV, sum)
		}
	}

	span := maxV - minV
	for i, v := range values {
		if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
			values[i] = 0.5
			continue
		}
		values[i] = (v - minV) / span
	}

	return &Field{Width: width, Height: height, Values: values}
}
