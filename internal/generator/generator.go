// Package generator is the single entry point of the texture pipeline. It
// derives the cache key, serves hits, and otherwise synthesizes, finishes,
// derives maps for and encodes every frame before storing the result.
package generator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"texforge/internal/cache"
	"texforge/internal/encoder"
	"texforge/internal/maps"
	"texforge/internal/palette"
	"texforge/internal/postprocess"
	"texforge/internal/stats"
	"texforge/internal/synth"
	"texforge/internal/texture"
)

type Generator struct {
	cache    cache.Cache
	encoders *encoder.Registry
	stats    *stats.Stats
	log      *zap.Logger
	workers  int

	group singleflight.Group
	now   func() time.Time
}

// Outcome is a result together with how it was obtained.
type Outcome struct {
	Result *texture.Result
	Key    string
	Cached bool
}

// New returns a generator. workers bounds the frames synthesized in parallel
// per request; a non-positive value uses GOMAXPROCS.
func New(c cache.Cache, encoders *encoder.Registry, st *stats.Stats, log *zap.Logger, workers int) *Generator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		cache:    c,
		encoders: encoders,
		stats:    st,
		log:      log,
		workers:  workers,
		now:      time.Now,
	}
}

// Generate returns the result for cfg. An invalid cfg yields a
// *texture.ValidationError; pipeline failures yield a *GenerationError.
func (g *Generator) Generate(ctx context.Context, cfg texture.Config) (*texture.Result, error) {
	out, err := g.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Run is Generate that also reports the cache key and whether the result
// came from the cache.
func (g *Generator) Run(ctx context.Context, cfg texture.Config) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key := cfg.CacheKey()
	if res, ok := g.cache.Lookup(ctx, key); ok {
		g.stats.Cached()
		return &Outcome{Result: res, Key: key, Cached: true}, nil
	}

	// Concurrent misses on one key share a single build. The build is
	// detached from the caller so one caller giving up does not fail the rest.
	ch := g.group.DoChan(key, func() (interface{}, error) {
		return g.buildOnce(context.WithoutCancel(ctx), key, cfg)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		out := *r.Val.(*Outcome)
		return &out, nil
	}
}

func (g *Generator) buildOnce(ctx context.Context, key string, cfg texture.Config) (*Outcome, error) {
	// A build that finished just before this one started has already stored the result.
	if res, ok := g.cache.Lookup(ctx, key); ok {
		g.stats.Cached()
		return &Outcome{Result: res, Key: key, Cached: true}, nil
	}

	end := g.stats.Begin()
	defer end()

	start := time.Now()
	res, err := g.build(ctx, key, cfg)
	if err != nil {
		g.stats.Error()
		fields := []zap.Field{
			zap.String("key", key),
			zap.String("type", string(cfg.Type)),
			zap.Int("width", cfg.Width),
			zap.Int("height", cfg.Height),
			zap.Int("frames", cfg.AnimationFrames),
			zap.Error(err),
		}
		var ge *GenerationError
		if errors.As(err, &ge) && ge.Frame >= 0 {
			fields = append(fields, zap.Int("frame", ge.Frame), zap.String("stage", ge.Stage))
		}
		g.log.Error("Generation failed", fields...)
		return nil, err
	}

	g.cache.Store(ctx, key, res)
	g.stats.Generated()

	g.log.Debug("Generated texture",
		zap.String("key", key),
		zap.String("type", string(cfg.Type)),
		zap.Int("frames", len(res.Diffuse)),
		zap.Duration("duration", time.Since(start)),
	)
	return &Outcome{Result: res, Key: key}, nil
}

func (g *Generator) build(ctx context.Context, key string, cfg texture.Config) (*texture.Result, error) {
	fail := func(frame int, stage string, err error) error {
		return &GenerationError{Key: key, Category: cfg.Type, Frame: frame, Stage: stage, Err: err}
	}

	enc, err := g.encoders.Get(cfg.Compression)
	if err != nil {
		return nil, fail(-1, "encoder", err)
	}

	n := cfg.AnimationFrames
	res := &texture.Result{Diffuse: make([]string, n)}
	if cfg.EnableNormalMap {
		res.Normal = make([]string, n)
	}
	if cfg.EnableSpecular {
		res.Specular = make([]string, n)
	}
	if cfg.EnableAO {
		res.AO = make([]string, n)
	}

	job := frameJob{
		cfg:     cfg,
		palette: cfg.Palette(),
		seed:    requestSeed(cfg),
		enc:     enc,
		res:     res,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := 0; i < n; i++ {
		eg.Go(func() (err error) {
			if cerr := egCtx.Err(); cerr != nil {
				return fail(i, "cancelled", cerr)
			}
			defer func() {
				if r := recover(); r != nil {
					err = fail(i, "panic", fmt.Errorf("%v", r))
				}
			}()
			if stage, ferr := job.run(i); ferr != nil {
				return fail(i, stage, ferr)
			}
			return nil
		})
	}
	// Any frame failure discards the whole batch.
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res.Metadata = texture.Metadata{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    n,
		Type:      string(cfg.Type),
		Format:    cfg.Compression,
		Timestamp: g.now().UTC(),
	}
	if err := res.Check(); err != nil {
		return nil, fail(-1, "assemble", err)
	}
	return res, nil
}

// requestSeed is the explicit seed, or a fresh random one per request.
func requestSeed(cfg texture.Config) uint64 {
	if cfg.Seed != nil {
		return uint64(*cfg.Seed)
	}
	return rand.Uint64()
}

// frameJob renders single frames of one request. Each frame writes only its
// own index of the result slices.
type frameJob struct {
	cfg     texture.Config
	palette palette.Palette
	seed    uint64
	enc     encoder.Encoder
	res     *texture.Result
}

// run renders frame i and returns the failing stage on error.
func (j frameJob) run(i int) (string, error) {
	// Every frame owns a stream derived from (seed, index), so output does
	// not depend on scheduling order.
	rng := rand.New(rand.NewPCG(j.seed, uint64(i)))

	img, err := synth.Frame(synth.Request{
		Config:  j.cfg,
		Palette: j.palette,
		Frame:   i,
		Rand:    rng,
	})
	if err != nil {
		return "synthesize", err
	}

	img = postprocess.Apply(img, j.cfg.Quality)

	if j.res.Diffuse[i], err = j.encode(img); err != nil {
		return "encode diffuse", err
	}
	if j.cfg.EnableNormalMap {
		if j.res.Normal[i], err = j.encode(maps.Normal(img)); err != nil {
			return "encode normal", err
		}
	}
	if j.cfg.EnableSpecular {
		if j.res.Specular[i], err = j.encode(maps.Specular(img)); err != nil {
			return "encode specular", err
		}
	}
	if j.cfg.EnableAO {
		if j.res.AO[i], err = j.encode(maps.AmbientOcclusion(img)); err != nil {
			return "encode ao", err
		}
	}
	return "", nil
}

func (j frameJob) encode(img image.Image) (string, error) {
	return encoder.EncodeString(j.enc, img)
}
