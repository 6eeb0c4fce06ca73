package sink

import (
	"encoding/json"

	"github.com/matzehuels/watertower/pkg/analyze"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
}

// WithIndent pretty-prints the document.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Volume  int             `json:"volume"`
	Heights []int           `json:"heights"`
	Rows    []string        `json:"rows"`
	Basins  []analyze.Basin `json:"basins"`
}

// RenderJSON encodes the result with its rows listed top-down.
func RenderJSON(res analyze.Result, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:   len(res.Heights),
		Volume:  res.Volume,
		Heights: res.Heights,
		Rows:    []string{},
		Basins:  res.Basins,
	}
	if out.Heights == nil {
		out.Heights = []int{}
	}
	if out.Basins == nil {
		out.Basins = []analyze.Basin{}
	}
	if res.Grid != nil {
		out.Height = res.Grid.Height()
		out.Rows = res.Grid.Rows()
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
