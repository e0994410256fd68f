package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/api"
	"github.com/combstruct/combstruct/internal/config"
	"github.com/combstruct/combstruct/internal/estimator"
)

// NewServeCmd runs the HTTP API until interrupted.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimator over HTTP",
		Long: `Starts the JSON API under /api/v1 with a health check at /healthz.
The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  combstruct serve
  combstruct serve --addr 127.0.0.1:9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if addr == "" {
				addr = cfg.Server.Address
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := estimator.New(
				estimator.WithStrict(cfg.Estimator.Strict),
				estimator.WithEquivalencies(true),
			)
			srv := api.New(api.Options{
				AllowedOrigins:    cfg.Server.AllowedOrigins,
				ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeoutSeconds) * time.Second,
				ShutdownTimeout:   time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
			}, svc, nil, logger)

			cmd.Printf("Serving on %s\n", addr)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from configuration)")
	return cmd
}
