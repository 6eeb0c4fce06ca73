package pipeline

import (
	"fmt"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(res analyze.Result, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case sink.FormatText:
			data = sink.RenderText(res, sink.WithAxis())
		case sink.FormatSVG:
			data = sink.RenderSVG(res, svgOpts...)
		case sink.FormatPNG:
			data, err = sink.RenderPNG(res, sink.WithPNGSVGOptions(svgOpts...))
		case sink.FormatJSON:
			data, err = sink.RenderJSON(res, sink.WithIndent())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStyle(opts.Style),
		sink.WithCellSize(opts.CellSize),
	}
	if opts.Caption {
		svgOpts = append(svgOpts, sink.WithCaption())
	}
	return svgOpts
}
