package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/pipeline"
)

const defaultOutputBase = "skyline"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	source   sourceFlags
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	style    string // visual style: "grid" or "flat"
	cellSize int    // cell edge in pixels
	caption  bool   // print the volume under the picture
}

// renderCommand creates the render command for writing artifacts to disk.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [heights...]",
		Short: "Render the flooded skyline to txt, SVG, PNG or JSON files",
		Example: `  watertower render 2 5 1 2 3 4 7 7 6 -f svg,png -o default
  watertower render --preset deep --style flat --caption`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(withLogger(cmd.Context(), c.Logger), cmd, args, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): txt, svg, png, json (comma-separated, default from config)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: grid, flat (default from config)")
	cmd.Flags().IntVar(&opts.cellSize, "cell-size", 0, "cell edge in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.caption, "caption", false, "print the volume under the picture")
	completeRenderFlags(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, args []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := opts.source.loadConfig()
	if err != nil {
		return err
	}
	pipeOpts, err := opts.source.options(cfg, args)
	if err != nil {
		return err
	}

	pipeOpts.Formats = cfg.Render.Formats
	if cmd.Flags().Changed("format") {
		pipeOpts.Formats = parseFormats(opts.formats)
	}
	if opts.style != "" {
		pipeOpts.Style = opts.style
	}
	if opts.cellSize != 0 {
		pipeOpts.CellSize = opts.cellSize
	}
	pipeOpts.Caption = opts.caption
	if err := pipeOpts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.source.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result, pipeOpts.Formats, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Calculated volume is %s", StyleNumber.Render(fmt.Sprint(result.Analysis.Volume)))
	printStats(result.Stats.Width, result.Stats.BasinCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))
	return nil
}

// writeArtifacts writes one file per format and returns the paths in format
// order.
func writeArtifacts(result *pipeline.Result, formats []string, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(output, format, len(formats))
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives the file for format. A single format written to an
// output that already carries an extension uses the output verbatim.
func outputPath(output, format string, count int) string {
	if output == "" {
		return defaultOutputBase + "." + format
	}
	if count == 1 && filepath.Ext(output) != "" {
		return output
	}
	return strings.TrimSuffix(output, "."+format) + "." + format
}
