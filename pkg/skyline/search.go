package skyline

// Direction selects which way [FindTallerColumn] scans.
type Direction int

const (
	// Left scans towards decreasing column indices.
	Left Direction = iota
	// Right scans towards increasing column indices.
	Right
)

// NotFound is returned by [FindTallerColumn] when the scan reaches the edge.
const NotFound = -1

// String returns "left" or "right".
func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

func (d Direction) step() int {
	if d == Left {
		return -1
	}
	return 1
}

// FindTallerColumn returns the index of the nearest column beyond from, in
// direction dir, whose height is strictly greater than reference. The column
// from itself is never considered. It returns NotFound if no such column
// exists before the edge of the map.
func FindTallerColumn(h *Heightmap, from, reference int, dir Direction) int {
	step := dir.step()
	for col := from + step; col >= 0 && col < h.Width(); col += step {
		if h.HeightAt(col) > reference {
			return col
		}
	}
	return NotFound
}
