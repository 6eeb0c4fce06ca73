package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/config"
	"github.com/matzehuels/watertower/pkg/generate"
	"github.com/matzehuels/watertower/pkg/io"
	"github.com/matzehuels/watertower/pkg/pipeline"
)

// sourceFlags holds the flags that pick the heightmap to analyze.
// Precedence: positional heights, --file, --random, --preset, then the
// config file.
type sourceFlags struct {
	configPath string // TOML config file
	file       string // heightmap file (text or JSON)
	preset     string // named configuration
	random     bool   // generate a random skyline
	seed       uint64 // seed for --random (0 = time-based)
	width      int    // columns for --random
	maxHeight  int    // grid rows / height ceiling
	noCache    bool   // bypass the cache entirely
	refresh    bool   // recompute and overwrite cached results
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&f.file, "file", "", "read heights from a text or JSON file")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "named configuration ("+strings.Join(generate.Presets(), ", ")+")")
	cmd.Flags().BoolVarP(&f.random, "random", "r", false, "generate a random skyline")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for --random (0 = time-based)")
	cmd.Flags().IntVar(&f.width, "width", 0, "columns for --random (default from config)")
	cmd.Flags().IntVarP(&f.maxHeight, "max-height", "m", 0, "grid rows and height ceiling (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
	completePresets(cmd)
}

// loadConfig reads --config, or the defaults, and applies flag overrides.
func (f *sourceFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.maxHeight != 0 {
		cfg.MaxHeight = f.maxHeight
	}
	if f.width != 0 {
		cfg.Width = f.width
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	return cfg, cfg.Validate()
}

// options resolves the heightmap source into pipeline options.
func (f *sourceFlags) options(cfg *config.Config, args []string) (pipeline.Options, error) {
	opts := pipeline.Options{
		MaxHeight: cfg.MaxHeight,
		Style:     cfg.Render.Style,
		CellSize:  cfg.Render.CellSize,
		Refresh:   f.refresh,
	}

	switch {
	case len(args) > 0:
		heights, err := io.ParseArgs(args)
		if err != nil {
			return opts, err
		}
		opts.Heights = heights
	case f.file != "":
		h, err := io.ImportFile(f.file, cfg.MaxHeight)
		if err != nil {
			return opts, err
		}
		opts.Heights = h.Heights()
		opts.MaxHeight = h.MaxHeight()
	case f.random:
		opts.Random = true
		opts.Seed = cfg.Seed
		opts.Width = cfg.Width
	case f.preset != "":
		opts.Preset = f.preset
	case len(cfg.Heights) > 0:
		opts.Heights = cfg.Heights
	default:
		opts.Preset = cfg.Preset
	}
	return opts, nil
}
