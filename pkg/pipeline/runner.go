package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/cache"
	"github.com/matzehuels/watertower/pkg/observability"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// Cache key types reported to observability hooks.
const (
	keyTypeAnalysis = "analysis"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the TUI and the API all use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. It doesn't
// store pipeline results, so multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default lifetime of cached entries when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete source → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Source
	h, err := opts.Heightmap()
	if err != nil {
		return nil, err
	}
	result := &Result{
		Heightmap: h,
		Artifacts: make(map[string][]byte),
	}
	opts.Logger.Debug("heightmap", "heights", h.String(), "max_height", h.MaxHeight())

	// Stage 2: Analyze
	analyzeStart := time.Now()
	res, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, h, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = res
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.Width = h.Width()
	result.Stats.Volume = res.Volume
	result.Stats.BasinCount = len(res.Basins)
	result.CacheInfo.AnalyzeHit = analyzeHit

	if data, err := analyze.Marshal(res); err == nil {
		result.ResultHash = cache.Hash(data)
	}

	opts.Logger.Info("analyzed skyline",
		"width", h.Width(),
		"volume", res.Volume,
		"cached", analyzeHit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo analyzes h with caching and returns cache hit info.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, h *skyline.Heightmap, opts Options) (analyze.Result, bool, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, h.Width(), h.MaxHeight())
	start := time.Now()

	cacheKey := r.Keyer.AnalysisKey(h.Heights(), h.MaxHeight())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		res, hit, err := r.cachedAnalysis(ctx, cacheKey)
		switch {
		case hit:
			observability.Cache().OnCacheHit(ctx, keyTypeAnalysis)
			hooks.OnAnalyzeComplete(ctx, h.Width(), res.Volume, time.Since(start), nil)
			return res, true, nil
		case errors.Is(err, cache.ErrCorrupt):
			opts.Logger.Warn("discarding corrupt cache entry", "key", cacheKey, "error", err)
			_ = r.Cache.Delete(ctx, cacheKey)
		case err != nil:
			opts.Logger.Debug("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeAnalysis)
	}

	res := analyze.Analyze(h)
	for _, b := range res.Basins {
		opts.Logger.Debug("basin",
			"left", b.Left,
			"right", b.Right,
			"level", b.Level,
			"rim", b.Rim,
			"volume", b.Volume)
	}
	hooks.OnAnalyzeComplete(ctx, h.Width(), res.Volume, time.Since(start), nil)

	if data, err := analyze.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLAnalysis)); err != nil {
			opts.Logger.Debug("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeAnalysis, len(data))
		}
	}

	return res, false, nil
}

// cachedAnalysis reads and decodes the analysis stored under key. A stored
// value that does not decode to a consistent result is reported as
// [cache.ErrCorrupt].
func (r *Runner) cachedAnalysis(ctx context.Context, key string) (analyze.Result, bool, error) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return analyze.Result{}, false, err
	}
	res, err := analyze.Unmarshal(data)
	if err != nil {
		return analyze.Result{}, false, fmt.Errorf("%w: %s: %v", cache.ErrCorrupt, key, err)
	}
	return res, true, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, h *skyline.Heightmap, opts Options) (analyze.Result, error) {
	res, _, err := r.AnalyzeWithCacheInfo(ctx, h, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res analyze.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from the encoded result
	data, err := analyze.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(data)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
