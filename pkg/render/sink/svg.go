package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/grid"
)

// Cell colours shared by the image sinks.
const (
	colorWall  = "#808080"
	colorWater = "#00c8c8"
	colorEmpty = "#ffffff"
	colorLine  = "#000000"
)

const (
	defaultCellSize = 20
	captionHeight   = 28
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    string
	cellSize int
	caption  bool
}

// WithStyle selects [StyleGrid] (cell outlines) or [StyleFlat].
func WithStyle(s string) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithCellSize sets the edge length of one cell in pixels.
func WithCellSize(n int) SVGOption {
	return func(r *svgRenderer) {
		if n > 0 {
			r.cellSize = n
		}
	}
}

// WithCaption adds a line with the calculated volume below the grid.
func WithCaption() SVGOption { return func(r *svgRenderer) { r.caption = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: StyleGrid, cellSize: defaultCellSize}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// frame returns the picture size for res.
func (r svgRenderer) frame(res analyze.Result) (width, height int) {
	width = res.Grid.Width() * r.cellSize
	height = res.Grid.Height() * r.cellSize
	if r.caption {
		height += captionHeight
	}
	return width, height
}

// RenderSVG draws one rectangle per cell. Row 0 is drawn at the bottom.
func RenderSVG(res analyze.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	if res.Grid == nil {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0"></svg>` + "\n")
	}

	w, h := r.frame(res)
	g := res.Grid
	size := r.cellSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", w, h, colorEmpty)

	stroke := ""
	if r.style == StyleGrid {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="1"`, colorLine)
	}

	for row := 0; row < g.Height(); row++ {
		y := (g.Height() - 1 - row) * size
		for col := 0; col < g.Width(); col++ {
			x := col * size
			c := g.Classify(col, row)
			if c == grid.Empty && r.style != StyleGrid {
				continue
			}
			fmt.Fprintf(&buf, `  <rect class="%s" x="%d" y="%d" width="%d" height="%d" fill="%s"%s/>`+"\n",
				c, x, y, size, size, svgFill(c), stroke)
		}
	}

	if r.caption {
		fmt.Fprintf(&buf, `  <text x="%d" y="%d" font-family="sans-serif" font-size="14" text-anchor="middle">Calculated volume is %d</text>`+"\n",
			w/2, g.Height()*size+captionHeight-9, res.Volume)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func svgFill(c grid.Cell) string {
	switch c {
	case grid.Wall:
		return colorWall
	case grid.Water:
		return colorWater
	default:
		return colorEmpty
	}
}
