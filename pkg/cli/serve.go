package cli

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/promptflow/pkg/adapter"
	"github.com/dd0wney/promptflow/pkg/api"
	"github.com/dd0wney/promptflow/pkg/config"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/metrics"
	"github.com/dd0wney/promptflow/pkg/server"
	"github.com/dd0wney/promptflow/pkg/session"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API with graceful shutdown on SIGINT or SIGTERM.

Routes answer both with and without ROUTE_PREFIX (default /api).
CORS_ORIGINS is a comma-separated allow-list. SIGHUP reloads the
log level from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd, rootOpts, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config and environment")
	return cmd
}

// NewHandler builds the shared HTTP handler for both deployment targets.
// The returned manager must be closed on shutdown.
func NewHandler(cfg config.Config, settings adapter.Settings, logger logging.Logger, version string) (*session.Manager, *api.Server, error) {
	manager := session.NewManager(session.Options{
		Layout:     visualization.NewRankedLayout(cfg.Layout),
		Dimensions: cfg.Node.Dimensions(),
		Logger:     logger,
		Metrics:    metrics.NewRegistry(),
	})

	srv, err := api.NewServer(api.Config{
		Manager:        manager,
		Logger:         logger,
		AllowedOrigins: settings.Origins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Version:        version,
	})
	if err != nil {
		manager.Close()
		return nil, nil, err
	}
	return manager, srv, nil
}

func runServe(cmd *cobra.Command, opts *RootOptions, cfg config.Config) error {
	logger := cfg.Logger()
	settings := adapter.FromEnv(opts.getenv)

	manager, srv, err := NewHandler(cfg, settings, logger, opts.version)
	if err != nil {
		return err
	}

	gs := server.NewGracefulServer(cfg.Server, adapter.StripPrefix(settings.Prefix, srv.Handler()), logger)
	gs.RegisterOnShutdown(manager.Close)
	gs.SetConfigReloadFunc(func() error {
		next, err := opts.load()
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(next.Log.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	})

	logger.Info("serving",
		logging.String("addr", cfg.Server.Addr),
		logging.String("prefix", settings.Prefix),
		logging.Int("origins", len(settings.Origins)),
	)
	return gs.Run(cmd.Context())
}
