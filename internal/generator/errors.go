package generator

import (
	"fmt"

	"texforge/internal/texture"
)

// GenerationError reports an unrecoverable failure while building a result.
// Frame is -1 when the failure is not tied to a single frame.
type GenerationError struct {
	Key      string
	Category texture.Category
	Frame    int
	Stage    string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("generate %s (%s): %s: %v", e.Category, texture.ETag(e.Key), e.Stage, e.Err)
	}
	return fmt.Sprintf("generate %s (%s) frame %d: %s: %v", e.Category, texture.ETag(e.Key), e.Frame, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
