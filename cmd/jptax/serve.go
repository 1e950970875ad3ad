package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/jptax/internal/api"
	"github.com/rgehrsitz/jptax/internal/logging"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr      string
		rulesFile string
		maxBody   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON HTTP API",
		Long: `Serve the calculator over HTTP.

Routes:
  GET  /healthz
  GET  /api/v1/rules
  GET  /api/v1/templates
  POST /api/v1/calculate
  POST /api/v1/compare
  POST /api/v1/solve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(c.settings.Env, c.settings.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			engine, err := c.newEngine(rulesFile, "", false)
			if err != nil {
				return err
			}
			engine.SetLogger(logger.Sugar())

			srv := api.NewServer(engine, logger)
			srv.MaxBodyBytes = maxBody

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting jptax api",
				zap.String("env", c.settings.Env),
				zap.String("era", engine.Rules.Metadata.Era),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.settings.Addr, "Listen address")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML (default: built-in Reiwa 7)")
	cmd.Flags().Int64Var(&maxBody, "max-body", api.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	return cmd
}
