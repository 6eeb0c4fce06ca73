package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/config"
	"github.com/matzehuels/watertower/pkg/server"
)

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Example: `  watertower serve --addr :9000
  curl 'localhost:9000/v1/analyze?heights=2,5,1,2,3,4,7,7,6'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(withLogger(cmd.Context(), c.Logger), cfg, noCache)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger.Info("starting server", "addr", cfg.Server.Addr, "cache", cacheKind(cfg.Cache, noCache))
	return server.New(runner, logger).ListenAndServe(ctx, cfg.Server.Addr)
}

// cacheKind names the cache backend newCache selects for cfg.
func cacheKind(cfg config.CacheConfig, noCache bool) string {
	switch {
	case noCache || cfg.Disabled:
		return "none"
	case cfg.Redis != "":
		return "redis"
	default:
		return "file"
	}
}
