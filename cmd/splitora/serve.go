package main

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/splitora/client/internal/api"
	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/jobs"
	"github.com/splitora/client/pkg/config"
	"github.com/splitora/client/pkg/logger"
)

func newServeCmd(get func() *app) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return serve(cmd.Context(), a, listenAddr(a.cfg, host, port))
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default SPLITORA_GATEWAY_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default SPLITORA_GATEWAY_PORT)")
	return cmd
}

// listenAddr resolves the gateway address. The gateway acts with the stored
// session and has no authentication of its own, so it stays on loopback
// unless a host is configured explicitly.
func listenAddr(cfg *config.Config, host string, port int) string {
	if host == "" {
		host = cfg.GatewayHost
	}
	if host == "" {
		host = "127.0.0.1"
	}
	if port == 0 {
		port = cfg.GatewayPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func serve(ctx context.Context, a *app, addr string) error {
	logg := logger.S()
	logg.Infow("starting [splitora gateway]...", "base_url", a.cfg.APIBaseURL, "session_backend", a.cfg.SessionBackend)

	eventbus.Subscribe(a.bus, func(e eventbus.ReauthRequired) {
		logg.Warnw("session.reauth_required", "message", e.Message, "event_id", e.ID)
	})

	// --- Proactive renewal ---
	refresher := jobs.NewTokenRefresher(logger.Named("token_refresher"), a.store, a.client, a.cfg.TokenRefreshInterval)
	go refresher.Start(ctx)

	// --- Profile cache cleaner ---
	stopCleaner := make(chan struct{})
	go a.api.Profiles().StartCleaner(time.Minute, stopCleaner)

	// --- Fiber HTTP Server ---
	srv := fiber.New(fiber.Config{
		ReadTimeout:  a.cfg.HTTPReadTimeout,
		WriteTimeout: a.cfg.HTTPWriteTimeout,
		IdleTimeout:  a.cfg.HTTPIdleTimeout,
		BodyLimit:    a.cfg.HTTPBodyLimit,
	})

	var health api.HealthChecker
	if a.redis != nil {
		health = a.redis
	}
	api.RegisterRoutes(srv, health, api.NewHandler(logger.Named("gateway"), a.api, a.state))

	listenErr := make(chan error, 1)
	go func() {
		logg.Infof("HTTP API listening on %s", addr)
		listenErr <- srv.Listen(addr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-listenErr:
		logg.Errorw("fiber.listen_failed", "error", err)
	}
	logg.Info("shutting down [splitora gateway]...")

	close(stopCleaner)
	refresher.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := srv.ShutdownWithContext(shutdownCtx); shutdownErr != nil {
		a.logger.Warn("fiber.shutdown_failed", zap.Error(shutdownErr))
	}
	return err
}
