package texture

import (
	"errors"
	"fmt"
	"time"
)

// Metadata describes a generated result.
type Metadata struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frames    int       `json:"frames"`
	Type      string    `json:"type"`
	Format    string    `json:"format"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the document produced for one config and persisted verbatim in
// the cache. Each entry of a frame list is an encoded image in base64.
type Result struct {
	Diffuse  []string `json:"diffuse"`
	Normal   []string `json:"normal,omitempty"`
	Specular []string `json:"specular,omitempty"`
	AO       []string `json:"ao,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Check reports whether r is structurally sound: at least one diffuse frame,
// a frame count that matches, and optional map lists of the same length.
func (r *Result) Check() error {
	if r == nil {
		return errors.New("nil result")
	}
	if len(r.Diffuse) == 0 {
		return errors.New("result has no diffuse frames")
	}
	if r.Metadata.Frames != len(r.Diffuse) {
		return fmt.Errorf("metadata frames %d does not match %d diffuse frames", r.Metadata.Frames, len(r.Diffuse))
	}
	maps := map[string][]string{"normal": r.Normal, "specular": r.Specular, "ao": r.AO}
	for name, frames := range maps {
		if frames != nil && len(frames) != len(r.Diffuse) {
			return fmt.Errorf("%s map has %d frames, want %d", name, len(frames), len(r.Diffuse))
		}
	}
	return nil
}
