package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	portalAuth "github.com/leanda/portalAuth"
	"github.com/leanda/portalAuth/internal/config"
	"github.com/leanda/portalAuth/internal/httpapi"
	"github.com/leanda/portalAuth/internal/logging"
	promexport "github.com/leanda/portalAuth/metrics/export/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	addr  string
	store string
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (overrides PORTAL_ADDR)")
	cmd.Flags().StringVar(&flags.store, "store", "", "account store: memory, postgres or redis (overrides PORTAL_STORE)")
	return cmd
}

func loadConfig(flags serveFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.store != "" {
		cfg.Store = flags.store
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cobra.Command, flags serveFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := logging.Setup("portald", version, cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	builder := portalAuth.New().
		WithConfig(cfg.Engine()).
		WithUserStore(be.store).
		WithLogger(logger)
	if cfg.AuditEnabled {
		builder = builder.WithAuditSink(portalAuth.NewSlogSink(logger.With("component", "audit")))
	}
	engine, err := builder.Build()
	if err != nil {
		return oops.Code("ENGINE_INIT_FAILED").Wrap(err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	logger.Info("security posture",
		"signing_algorithm", report.SigningAlgorithm,
		"token_ttl", report.TokenTTL,
		"password_algorithm", report.Password.Algorithm,
		"audit", report.AuditEnabled,
	)
	for _, w := range report.Warnings {
		logger.Warn("security warning", "detail", w)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		promexport.NewExporter(engine),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api := httpapi.NewServer(engine,
		httpapi.WithLogger(logger.With("component", "http")),
		httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		httpapi.WithReadiness(be.ping),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return oops.Code("HTTP_SERVE_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("HTTP_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}
