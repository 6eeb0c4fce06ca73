package sink

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/grid"
)

var (
	textWall  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	textWater = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	textEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// TextOption configures text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	color bool
	axis  bool
}

// WithColor styles walls and water with terminal colours. Colours are
// dropped automatically when the output is not a terminal.
func WithColor() TextOption { return func(r *textRenderer) { r.color = true } }

// WithAxis appends a row with each column's height underneath the grid.
// Heights above 9 are written in base 36; heights above 35 as '+'.
func WithAxis() TextOption { return func(r *textRenderer) { r.axis = true } }

// RenderText renders the grid top-down, one line per row.
func RenderText(res analyze.Result, opts ...TextOption) []byte {
	var r textRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var b strings.Builder
	if res.Grid != nil {
		for _, row := range res.Grid.Rows() {
			if r.color {
				writeColored(&b, row)
			} else {
				b.WriteString(row)
			}
			b.WriteByte('\n')
		}
	}
	if r.axis {
		for _, h := range res.Heights {
			b.WriteString(axisLabel(h))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// writeColored styles runs of equal glyphs so that each run costs one escape
// sequence.
func writeColored(b *strings.Builder, row string) {
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		b.WriteString(glyphStyle(row[i]).Render(row[i:j]))
		i = j
	}
}

func glyphStyle(c byte) lipgloss.Style {
	switch rune(c) {
	case grid.GlyphWall:
		return textWall
	case grid.GlyphWater:
		return textWater
	default:
		return textEmpty
	}
}

func axisLabel(h int) string {
	if h >= 36 {
		return "+"
	}
	return strconv.FormatInt(int64(h), 36)
}
