// Package grid classifies every cell of a skyline as wall, water or empty.
//
// A [Grid] is created from a [skyline.Heightmap] with every cell below a
// column's height marked [Wall]. The analyzer then floods cells to [Water].
// Cells only ever move from [Empty] to [Water]; a wall never floods and water
// never drains. Row 0 is the lowest band.
//
// A Grid is owned by the analysis run that created it and handed to the
// caller when the run completes. It is not safe for concurrent mutation.
package grid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/watertower/pkg/skyline"
)

// Cell is the classification of a single grid cell.
type Cell uint8

const (
	// Empty is open air above a column.
	Empty Cell = iota
	// Wall is part of a column, below its height.
	Wall
	// Water is an empty cell flooded by the analysis.
	Water
)

var cellNames = [...]string{Empty: "empty", Wall: "wall", Water: "water"}

// Glyphs used by the text representation.
const (
	GlyphEmpty = '.'
	GlyphWall  = '#'
	GlyphWater = 'w'
)

// String returns "empty", "wall" or "water".
func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("cell(%d)", c)
}

// Rune returns the single-character glyph for c.
func (c Cell) Rune() rune {
	switch c {
	case Wall:
		return GlyphWall
	case Water:
		return GlyphWater
	default:
		return GlyphEmpty
	}
}

func cellFromRune(r rune) (Cell, bool) {
	switch r {
	case GlyphEmpty:
		return Empty, true
	case GlyphWall:
		return Wall, true
	case GlyphWater:
		return Water, true
	}
	return Empty, false
}

// Grid is a width × height classification of skyline cells.
type Grid struct {
	width, height int
	cells         []Cell
}

// New returns the wall-only grid for h: h.Width() columns, h.MaxHeight()
// rows, with exactly the cells below each column's height marked Wall.
func New(h *skyline.Heightmap) *Grid {
	g := &Grid{
		width:  h.Width(),
		height: h.MaxHeight(),
		cells:  make([]Cell, h.Width()*h.MaxHeight()),
	}
	for col := 0; col < g.width; col++ {
		for row := 0; row < h.HeightAt(col); row++ {
			g.cells[g.index(col, row)] = Wall
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(col, row int) int {
	if col < 0 || col >= g.width || row < 0 || row >= g.height {
		panic(fmt.Sprintf("grid: cell (%d, %d) outside %dx%d grid", col, row, g.width, g.height))
	}
	return row*g.width + col
}

// Classify returns the cell at (col, row).
func (g *Grid) Classify(col, row int) Cell {
	return g.cells[g.index(col, row)]
}

// MarkWater floods the cell at (col, row). Marking an existing water cell is
// a no-op. Marking a wall is a defect in the caller and panics.
func (g *Grid) MarkWater(col, row int) {
	i := g.index(col, row)
	switch g.cells[i] {
	case Wall:
		panic(fmt.Sprintf("grid: cannot flood wall cell (%d, %d)", col, row))
	case Empty:
		g.cells[i] = Water
	}
}

// Count returns the number of cells classified as c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  append([]Cell(nil), g.cells...),
	}
}

// Equal reports whether g and other have the same size and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the grid as glyph strings, top row first.
func (g *Grid) Rows() []string {
	rows := make([]string, 0, g.height)
	var b strings.Builder
	for row := g.height - 1; row >= 0; row-- {
		b.Reset()
		for col := 0; col < g.width; col++ {
			b.WriteRune(g.Classify(col, row).Rune())
		}
		rows = append(rows, b.String())
	}
	return rows
}

// String returns Rows joined by newlines.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// FromRows rebuilds a grid from the output of Rows.
func FromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("grid: empty row")
	}
	g := &Grid{width: width, height: len(rows), cells: make([]Cell, width*len(rows))}
	for i, line := range rows {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", i, len(runes), width)
		}
		row := g.height - 1 - i
		for col, r := range runes {
			c, ok := cellFromRune(r)
			if !ok {
				return nil, fmt.Errorf("grid: row %d: unknown glyph %q", i, r)
			}
			g.cells[g.index(col, row)] = c
		}
	}
	return g, nil
}
