// Package generate produces heightmaps: seeded random skylines and the named
// preset configurations.
package generate

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// Defaults for generated skylines.
const (
	DefaultWidth     = 9
	DefaultMaxHeight = 9
)

// Random returns a heightmap of width columns with heights drawn uniformly
// from 1..maxHeight. The same non-zero seed always yields the same heights;
// seed 0 draws a fresh seed from the clock.
func Random(seed uint64, width, maxHeight int) (*skyline.Heightmap, error) {
	if width < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "width must be at least 1, got %d", width)
	}
	if err := errors.ValidateDimensions(width, maxHeight); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	heights := make([]int, width)
	for i := range heights {
		heights[i] = rng.IntN(maxHeight) + 1
	}
	return skyline.New(heights, maxHeight)
}

// Source yields a sequence of random heightmaps from one seed. It is not
// safe for concurrent use.
type Source struct {
	rng       *rand.Rand
	width     int
	maxHeight int
}

// NewSource returns a Source for width × maxHeight skylines.
func NewSource(seed uint64, width, maxHeight int) (*Source, error) {
	if width < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "width must be at least 1, got %d", width)
	}
	if err := errors.ValidateDimensions(width, maxHeight); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{
		rng:       rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		width:     width,
		maxHeight: maxHeight,
	}, nil
}

// Next returns the next heightmap.
func (s *Source) Next() *skyline.Heightmap {
	heights := make([]int, s.width)
	for i := range heights {
		heights[i] = s.rng.IntN(s.maxHeight) + 1
	}
	return skyline.MustNew(heights, s.maxHeight)
}

// =============================================================================
// Presets
// =============================================================================

// PresetDefault is the configuration shown on start-up.
const PresetDefault = "default"

var presets = map[string][]int{
	PresetDefault: {2, 5, 1, 2, 3, 4, 7, 7, 6}, // volume 10
	"shallow":     {2, 1, 1, 2, 3, 4, 7, 5, 6}, // volume 3
	"deep":        {5, 4, 7, 2, 3, 4, 7, 5, 7}, // volume 15
	"well":        {5, 1, 5},                   // volume 4
	"basin":       {4, 1, 1, 1, 4},             // volume 9
	"flat":        {3, 3, 3},                   // volume 0
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns the named configuration against maxHeight.
func Preset(name string, maxHeight int) (*skyline.Heightmap, error) {
	heights, ok := presets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown preset %q (available: %v)", name, Presets())
	}
	return skyline.New(heights, maxHeight)
}

// Default returns the start-up configuration on a 9-high grid.
func Default() *skyline.Heightmap {
	h, err := Preset(PresetDefault, DefaultMaxHeight)
	if err != nil {
		panic(fmt.Sprintf("generate: default preset: %v", err))
	}
	return h
}
