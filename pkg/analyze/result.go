package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/watertower/pkg/grid"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// MaxHeight returns the number of grid rows, which is the height ceiling the
// analyzed heightmap was built with.
func (r Result) MaxHeight() int {
	if r.Grid == nil {
		return 0
	}
	return r.Grid.Height()
}

// Heightmap rebuilds the analyzed heightmap.
func (r Result) Heightmap() (*skyline.Heightmap, error) {
	return skyline.New(r.Heights, r.MaxHeight())
}

// Verify checks that r is internally consistent: the grid matches the
// heights, walls sit exactly below each column's height, and the volume
// equals the number of water cells.
func (r Result) Verify() error {
	if r.Grid == nil {
		return fmt.Errorf("result has no grid")
	}
	if r.Grid.Width() != len(r.Heights) {
		return fmt.Errorf("grid width %d does not match %d columns", r.Grid.Width(), len(r.Heights))
	}
	for col, h := range r.Heights {
		for row := 0; row < r.Grid.Height(); row++ {
			isWall := r.Grid.Classify(col, row) == grid.Wall
			if isWall != (row < h) {
				return fmt.Errorf("cell (%d, %d) wall=%v but column height is %d", col, row, isWall, h)
			}
		}
	}
	if water := r.Grid.Count(grid.Water); water != r.Volume {
		return fmt.Errorf("volume %d does not match %d water cells", r.Volume, water)
	}
	return nil
}

// Marshal encodes r as JSON.
func Marshal(r Result) ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a result written by Marshal and verifies it.
func Unmarshal(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, err
	}
	if err := r.Verify(); err != nil {
		return Result{}, fmt.Errorf("invalid result: %w", err)
	}
	return r, nil
}
