package skyline

import (
	"strconv"
	"strings"

	"github.com/matzehuels/watertower/pkg/errors"
)

// Heightmap is an immutable ordered sequence of wall heights.
type Heightmap struct {
	heights   []int
	maxHeight int
}

// New validates heights against maxHeight and returns a Heightmap holding a
// copy of them. It fails with [errors.ErrCodeInvalidConfiguration] when
// heights is empty, maxHeight is below 1, or any height lies outside
// [0, maxHeight].
func New(heights []int, maxHeight int) (*Heightmap, error) {
	if maxHeight < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "max height must be at least 1, got %d", maxHeight)
	}
	if len(heights) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "heightmap must have at least one column")
	}
	for i, h := range heights {
		if h < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "column %d: height %d is negative", i, h)
		}
		if h > maxHeight {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "column %d: height %d exceeds max height %d", i, h, maxHeight)
		}
	}
	return &Heightmap{
		heights:   append([]int(nil), heights...),
		maxHeight: maxHeight,
	}, nil
}

// MustNew is like New but panics on invalid input. Intended for fixed
// configurations and tests.
func MustNew(heights []int, maxHeight int) *Heightmap {
	h, err := New(heights, maxHeight)
	if err != nil {
		panic(err)
	}
	return h
}

// Width returns the number of columns.
func (h *Heightmap) Width() int { return len(h.heights) }

// MaxHeight returns the configured height ceiling.
func (h *Heightmap) MaxHeight() int { return h.maxHeight }

// HeightAt returns the wall height of column col. It panics if col is out
// of range, like a slice index.
func (h *Heightmap) HeightAt(col int) int { return h.heights[col] }

// Heights returns a copy of the column heights.
func (h *Heightmap) Heights() []int { return append([]int(nil), h.heights...) }

// Bounds returns the lowest and highest wall heights.
func (h *Heightmap) Bounds() (lowest, highest int) {
	lowest, highest = h.heights[0], h.heights[0]
	for _, v := range h.heights[1:] {
		lowest = min(lowest, v)
		highest = max(highest, v)
	}
	return lowest, highest
}

// Equal reports whether h and other describe the same configuration.
func (h *Heightmap) Equal(other *Heightmap) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.maxHeight != other.maxHeight || len(h.heights) != len(other.heights) {
		return false
	}
	for i := range h.heights {
		if h.heights[i] != other.heights[i] {
			return false
		}
	}
	return true
}

// String formats the heights as "2 | 5 | 1".
func (h *Heightmap) String() string {
	parts := make([]string, len(h.heights))
	for i, v := range h.heights {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " | ")
}
