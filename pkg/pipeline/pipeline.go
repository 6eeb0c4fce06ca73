// Package pipeline provides the core analysis pipeline for watertower.
//
// This package implements the complete source → analyze → render pipeline
// used by the CLI, the interactive view and the HTTP API. By centralizing
// this logic, every entry point validates, caches and renders the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Source: Build the heightmap from explicit heights, a preset or a seed
//  2. Analyze: Flood the skyline and count the retained water
//  3. Render: Generate output in various formats (txt, SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Heights:   []int{2, 5, 1, 2, 3, 4, 7, 7, 6},
//	    MaxHeight: 9,
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, hit, err := runner.AnalyzeWithCacheInfo(ctx, h, opts)
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, res, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/cache"
	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/generate"
	"github.com/matzehuels/watertower/pkg/render/sink"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultMaxHeight is the default number of grid rows.
	DefaultMaxHeight = generate.DefaultMaxHeight

	// DefaultWidth is the default column count for random skylines.
	DefaultWidth = generate.DefaultWidth

	// DefaultCellSize is the default cell edge in pixels.
	DefaultCellSize = 20

	// DefaultStyle is the default visual style.
	DefaultStyle = sink.StyleGrid

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = sink.FormatText
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
//
// Exactly one heightmap source may be set: Heights, Preset or Random. With
// none set the default preset is analyzed.
type Options struct {
	// Source options
	Heights   []int  `json:"heights,omitempty"`
	Preset    string `json:"preset,omitempty"`
	Random    bool   `json:"random,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	Width     int    `json:"width,omitempty"` // Columns for random skylines
	MaxHeight int    `json:"max_height,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`
	Caption  bool     `json:"caption,omitempty"`

	// Refresh bypasses cached results. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Heightmap is the analyzed skyline.
	Heightmap *skyline.Heightmap

	// Analysis holds the volume, grid and basins.
	Analysis analyze.Result

	// ResultHash is the content hash of the encoded analysis.
	ResultHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width       int
	Volume      int
	BasinCount  int
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the analysis came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the source and render fields and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAnalyze checks the heightmap source and applies its defaults.
func (o *Options) ValidateForAnalyze() error {
	sources := 0
	for _, set := range []bool{len(o.Heights) > 0, o.Preset != "", o.Random} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "heights, preset and random are mutually exclusive")
	}

	if o.MaxHeight == 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Random && o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidateDimensions(max(o.Width, len(o.Heights)), o.MaxHeight)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.CellSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "cell size must be positive, got %d", o.CellSize)
	}
	return sink.ValidateStyle(o.Style)
}

// Heightmap builds the skyline the options describe.
func (o *Options) Heightmap() (*skyline.Heightmap, error) {
	switch {
	case len(o.Heights) > 0:
		return skyline.New(o.Heights, o.MaxHeight)
	case o.Random:
		return generate.Random(o.Seed, o.Width, o.MaxHeight)
	case o.Preset != "":
		return generate.Preset(o.Preset, o.MaxHeight)
	default:
		return generate.Preset(generate.PresetDefault, o.MaxHeight)
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Style:    o.Style,
		CellSize: o.CellSize,
		Caption:  o.Caption,
	}
}
