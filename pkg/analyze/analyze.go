package analyze

import (
	"github.com/matzehuels/watertower/pkg/grid"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// Basin is one flooded segment found during the sweep: every column strictly
// between Left and Right is filled from Level up to (excluding) Rim.
type Basin struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Level  int `json:"level"`
	Rim    int `json:"rim"`
	Volume int `json:"volume"`
}

// Width returns the number of flooded columns.
func (b Basin) Width() int { return b.Right - b.Left - 1 }

// Depth returns the number of flooded rows.
func (b Basin) Depth() int { return b.Rim - b.Level }

// Result is the outcome of one analysis run.
type Result struct {
	// Heights are the analyzed column heights.
	Heights []int `json:"heights"`

	// Volume is the retained water in cells.
	Volume int `json:"volume"`

	// Grid classifies every cell. It is owned by the caller.
	Grid *grid.Grid `json:"grid"`

	// Basins lists the flooded segments in the order they were filled.
	Basins []Basin `json:"basins,omitempty"`
}

// Analyze computes the retained water volume of h and the flooded grid.
func Analyze(h *skyline.Heightmap) Result {
	res := Result{
		Heights: h.Heights(),
		Grid:    grid.New(h),
	}

	lowest, highest := h.Bounds()
	if lowest == highest {
		return res
	}

	for level := lowest; level <= highest; level++ {
		// Equal columns separated only by lower ones resolve to the same
		// pair of walls. Counting that span once per level keeps Volume
		// equal to the number of water cells; [4,2,1,2,4] holds 7, not 13.
		filled := make(map[[2]int]bool)

		for j := 0; j < h.Width(); j++ {
			if h.HeightAt(j) != level {
				continue
			}
			if j >= 1 && h.HeightAt(j-1) == h.HeightAt(j) {
				continue
			}

			left := skyline.FindTallerColumn(h, j, level, skyline.Left)
			if left == skyline.NotFound {
				continue
			}
			right := skyline.FindTallerColumn(h, j, level, skyline.Right)
			if right == skyline.NotFound {
				continue
			}

			span := [2]int{left, right}
			if filled[span] {
				continue
			}
			filled[span] = true

			b := fill(res.Grid, h, left, right, level)
			res.Volume += b.Volume
			res.Basins = append(res.Basins, b)
		}
	}

	return res
}

// fill floods the columns strictly between left and right from level up to
// the lower rim.
func fill(g *grid.Grid, h *skyline.Heightmap, left, right, level int) Basin {
	rim := min(h.HeightAt(left), h.HeightAt(right))
	for row := level; row < rim; row++ {
		for col := left + 1; col < right; col++ {
			g.MarkWater(col, row)
		}
	}
	b := Basin{Left: left, Right: right, Level: level, Rim: rim}
	b.Volume = b.Depth() * b.Width()
	return b
}
