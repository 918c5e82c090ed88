// Command scribbleboard runs the shared-canvas server: a websocket relay
// over one authoritative stroke history, plus the static rendering client
// and export/metrics endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scribbleboard/scribbleboard/internal/board"
	"github.com/scribbleboard/scribbleboard/internal/config"
	"github.com/scribbleboard/scribbleboard/internal/discovery"
	"github.com/scribbleboard/scribbleboard/internal/export"
	"github.com/scribbleboard/scribbleboard/internal/relay"
	"github.com/scribbleboard/scribbleboard/internal/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := board.NewRegistry(logger)
	registry.CreateSpace(cfg.Space)
	history := board.NewHistory(cfg.HistoryCap)
	active := board.NewActiveStrokes()
	metrics := board.NewMetrics()
	hub := relay.NewHub()
	session := relay.NewSession(cfg.Space, registry, history, active, hub, metrics, logger)
	go session.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", transport.NewHandler(session, hub, logger))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/export/pdf", export.PDFHandler(history))
	mux.Handle("/export/summary", export.SummaryHandler(history))
	mux.Handle("/", transport.StaticHandler(cfg.StaticDir))

	if cfg.MDNS {
		if port, ok := listenPort(cfg.Addr); ok {
			server, err := discovery.Advertise(port)
			if err != nil {
				logger.Warn("mDNS advertisement failed", "error", err)
			} else {
				defer server.Shutdown()
			}
		} else {
			logger.Warn("cannot advertise over mDNS, no port in addr", "addr", cfg.Addr)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.Addr,
			"space", cfg.Space,
			"share", fmt.Sprintf("http://%s%s", discovery.OutgoingIP(), portSuffix(cfg.Addr)),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func listenPort(addr string) (int, bool) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 0, false
	}
	return port, true
}

func portSuffix(addr string) string {
	if port, ok := listenPort(addr); ok {
		return ":" + strconv.Itoa(port)
	}
	return ""
}
