package sink

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/grid"
)

var (
	rgbaWall  = color.RGBA{0x80, 0x80, 0x80, 0xff}
	rgbaWater = color.RGBA{0x00, 0xc8, 0xc8, 0xff}
	rgbaEmpty = color.RGBA{0xff, 0xff, 0xff, 0xff}
	rgbaLine  = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions applies the SVG options (style, cell size, caption) to
// the raster as well.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the same picture [RenderSVG] draws.
func RenderPNG(res analyze.Result, opts ...PNGOption) ([]byte, error) {
	p := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&p)
	}
	if p.scale <= 0 {
		return nil, fmt.Errorf("invalid png scale %g", p.scale)
	}
	if res.Grid == nil || res.Grid.Width() == 0 {
		return nil, fmt.Errorf("nothing to draw: empty grid")
	}

	r := newSVGRenderer(p.svgOpts...)
	w, h := r.frame(res)

	dc := gg.NewContext(int(float64(w)*p.scale), int(float64(h)*p.scale))
	dc.Scale(p.scale, p.scale)
	dc.SetColor(rgbaEmpty)
	dc.Clear()

	g := res.Grid
	size := float64(r.cellSize)
	for row := 0; row < g.Height(); row++ {
		y := float64(g.Height()-1-row) * size
		for col := 0; col < g.Width(); col++ {
			x := float64(col) * size
			c := g.Classify(col, row)
			if c != grid.Empty {
				dc.DrawRectangle(x, y, size, size)
				dc.SetColor(pngFill(c))
				dc.Fill()
			}
			if r.style == StyleGrid {
				dc.DrawRectangle(x, y, size, size)
				dc.SetColor(rgbaLine)
				dc.SetLineWidth(1)
				dc.Stroke()
			}
		}
	}

	if r.caption {
		dc.SetColor(rgbaLine)
		dc.DrawStringAnchored(fmt.Sprintf("Calculated volume is %d", res.Volume),
			float64(w)/2, float64(g.Height())*size+captionHeight/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pngFill(c grid.Cell) color.Color {
	switch c {
	case grid.Wall:
		return rgbaWall
	case grid.Water:
		return rgbaWater
	default:
		return rgbaEmpty
	}
}
