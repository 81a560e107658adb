package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spicewatch/internal/api"
	"github.com/Veraticus/spicewatch/internal/certs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept notification events over HTTP",
		Long: `Run the HTTP ingestion API.

Endpoints:
  POST /api/v1/notifications   queue a notification event (202 Accepted)
  POST /api/v1/trigger         run the sample or a supplied transaction text
  GET  /api/v1/events          recent status events
  GET  /api/v1/submissions     submission history
  GET  /health                 health check
  GET  /metrics                Prometheus metrics`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := api.NewHandler(
		a.pipeline,
		a.events,
		a.store,
		promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		slog.Default(),
	)

	serverCfg := api.DefaultServerConfig(cfg.Server.Addr)
	if cfg.Server.TLS {
		tlsCfg, err := certs.NewFileManager(cfg.Server.CertDir, cfg.Server.Hosts...).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		serverCfg.TLS = tlsCfg
	}

	return api.Serve(ctx, serverCfg, api.NewServer(handler), slog.Default())
}
