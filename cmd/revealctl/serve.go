package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/reveal/internal/config"
	"github.com/alfredjeanlab/reveal/internal/events"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/registry"
	"github.com/alfredjeanlab/reveal/internal/server"
	"github.com/alfredjeanlab/reveal/internal/visibility"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the reveal HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		pal, err := palette.LoadOrDefault(cfg.PaletteFile)
		if err != nil {
			return err
		}
		if cfg.PaletteFile != "" {
			logger.Info("palette loaded", "path", cfg.PaletteFile)
		}

		// Create event publisher and visibility observer.
		var (
			publisher events.Publisher
			observer  *visibility.NATSObserver
		)
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub

			obs, err := visibility.NewNATSObserver(cfg.NATSURL)
			if err != nil {
				publisher.Close()
				return err
			}
			observer = obs
			logger.Info("events and visibility over NATS enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled, manual visibility (REVEAL_NATS_URL not set)")
		}

		opts := server.Options{
			Registry:  registry.New(),
			Publisher: publisher,
			Palette:   pal,
			Seed:      cfg.Seed,
		}
		if observer != nil {
			opts.Observer = observer
		}
		srv := server.New(opts)

		if cfg.ChartTTL > 0 {
			srv.Registry().StartReaper(&registry.ReaperConfig{IdleTTL: cfg.ChartTTL})
		}

		// Event streams never finish on their own; cancel their base context
		// on shutdown so Shutdown does not wait out its timeout.
		baseCtx, cancelStreams := context.WithCancel(context.Background())
		defer cancelStreams()
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		}
		httpServer.RegisterOnShutdown(cancelStreams)

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr, "auth", cfg.AuthToken != "")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("reveal server started", "http_addr", cfg.HTTPAddr, "seed", cfg.Seed, "chart_ttl", cfg.ChartTTL)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		srv.Shutdown()
		logger.Info("charts disposed")

		if observer != nil {
			if err := observer.Close(); err != nil {
				logger.Error("error closing visibility observer", "err", err)
			}
		}
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
