package cache

import (
	"context"

	"texforge/internal/texture"
)

// NoopCache never holds anything; every lookup is a miss.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) Lookup(ctx context.Context, key string) (*texture.Result, bool) {
	return nil, false
}

func (c *NoopCache) Store(ctx context.Context, key string, result *texture.Result) {
}

func (c *NoopCache) Has(ctx context.Context, key string) bool {
	return false
}

func (c *NoopCache) Clear(ctx context.Context) error {
	return nil
}

func (c *NoopCache) Len(ctx context.Context) int {
	return 0
}
