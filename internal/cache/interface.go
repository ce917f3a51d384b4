// Package cache stores generated results addressed by their cache key.
//
// Backends never surface I/O or decode failures: a broken read is a miss and
// a failed write is logged and dropped, so a cache fault only costs a
// recomputation.
package cache

import (
	"context"

	"texforge/internal/texture"
)

// Cache is a key→result store. Keys are the 64-char hex digests produced by
// texture.Config.CacheKey. Stored results must not be mutated afterwards.
type Cache interface {
	Lookup(ctx context.Context, key string) (*texture.Result, bool)
	Store(ctx context.Context, key string, result *texture.Result)
	Has(ctx context.Context, key string) bool // Cheap existence check, does not decode the entry
	Clear(ctx context.Context) error
	Len(ctx context.Context) int
}
