package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// BrowseCmd represents the browse command
type BrowseCmd struct {
	Path string `arg:"" optional:"" help:"Screen to open, e.g. /books/3 or /add" default:"/books"`

	ViewFlags `embed:""`

	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (b *BrowseCmd) Run() error {
	params, err := b.Params()
	if err != nil {
		return err
	}

	restore, err := logToFile(viper.GetString(config.KeyLogFile))
	if err != nil {
		return err
	}
	defer restore()

	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := b.MetricsAddr
	if addr == "" {
		addr = s.settings.MetricsAddr
	}
	if addr != "" {
		stop, err := serveMetrics(addr, s.store.Registry())
		if err != nil {
			return err
		}
		defer stop()
	}

	return runUI(s.store, tui.Options{
		CacheSize: s.settings.CacheSize,
		StartPath: b.Path,
		Params:    params,
	})
}

// logToFile redirects the default logger to path while the UI owns the
// terminal. The returned func restores stdout logging.
func logToFile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	prev := slog.Default()
	setLogOutput(f, slog.LevelDebug)
	return func() {
		slog.SetDefault(prev)
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close log file", "error", err)
		}
	}, nil
}

// serveMetrics exposes reg on addr under /metrics until stop is called.
func serveMetrics(addr string, reg *prometheus.Registry) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	slog.Info("Serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
