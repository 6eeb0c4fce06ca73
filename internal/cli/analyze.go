package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/render/sink"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	source sourceFlags
	json   bool // print the result document instead of the grid
	basins bool // list every filled basin
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [heights...]",
		Short: "Compute the water a skyline retains",
		Long: `Analyze floods the skyline level by level and prints the resulting grid and volume.

Heights can be given as arguments in any of these forms:
  watertower analyze 2 5 1 2 3 4 7 7 6
  watertower analyze 2,5,1,2,3,4,7,7,6
  watertower analyze "2 | 5 | 1 | 2 | 3 | 4 | 7 | 7 | 6"

Without heights the configured preset is analyzed.`,
		Example: `  watertower analyze --preset deep
  watertower analyze --random --seed 42 --width 20 --max-height 12
  watertower analyze --file skyline.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(withLogger(cmd.Context(), c.Logger), args, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.basins, "basins", false, "list the filled basins")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, args []string, opts analyzeOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.source.loadConfig()
	if err != nil {
		return err
	}
	pipeOpts, err := opts.source.options(cfg, args)
	if err != nil {
		return err
	}
	pipeOpts.Formats = []string{sink.FormatText}
	if opts.json {
		pipeOpts.Formats = []string{sink.FormatJSON}
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
	logger.Debug("analysis", "volume", result.Analysis.Volume, "basins", len(result.Analysis.Basins))

	if opts.json {
		_, err := os.Stdout.Write(append(result.Artifacts[sink.FormatJSON], '\n'))
		return err
	}

	printInfo("Your configuration is: %s", result.Heightmap)
	printNewline()
	fmt.Print(string(sink.RenderText(result.Analysis, sink.WithColor(), sink.WithAxis())))
	printNewline()
	printSuccess("Calculated volume is %s", StyleNumber.Render(fmt.Sprint(result.Analysis.Volume)))
	printStats(result.Stats.Width, result.Stats.BasinCount, result.CacheInfo.AnalyzeHit)

	if opts.basins {
		for _, b := range result.Analysis.Basins {
			printDetail("columns %d-%d  rows %d-%d  volume %d", b.Left+1, b.Right-1, b.Level, b.Rim-1, b.Volume)
		}
	}
	return nil
}
