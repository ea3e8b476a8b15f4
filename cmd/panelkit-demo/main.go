// Command panelkit-demo renders a small panel tree in the terminal: a radio
// group and a checkbox group inside a centered main panel, or the layout
// declared in the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/panelkit/pkg/config"
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/telemetry"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	tcellbackend "github.com/odvcencio/panelkit/pkg/ui/backend/tcell"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		code := exitCodeForError(err)
		if code != 0 {
			fmt.Fprintf(os.Stderr, "panelkit-demo: %v\n", err)
		}
		os.Exit(code)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("panelkit-demo", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file to load and watch (default: ~/.panelkit and ./.panelkit)")
	logDir := fs.String("log-dir", "", "directory for JSONL session logs")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}

	if !isInteractiveTerminal() {
		return withExitCode(errors.New("stdin and stdout must be a terminal"), 2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return withExitCode(err, 2)
	}
	if *logDir != "" {
		cfg.Logging.Dir = *logDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}

	logger, err := logging.NewLogger(cfg.LogDir(), uuid.NewString())
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetMinLevel(cfg.LogLevel())

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	hub := telemetry.NewHub()
	defer hub.Close()

	tb, err := tcellbackend.New()
	if err != nil {
		logger.Error(logging.CategoryBackend, "init_failed", err.Error(), nil)
		return err
	}
	screen := backend.NewScreen(tb)
	if err := screen.Init(); err != nil {
		logger.Error(logging.CategoryBackend, "init_failed", err.Error(), nil)
		return err
	}
	defer screen.Fini()

	a, err := newApp(screen, cfg, logger, metrics, hub)
	if err != nil {
		return err
	}

	if *configPath != "" {
		w, err := config.NewWatcher(*configPath,
			config.WithWatchLogger(logger),
			config.WithWatchMetrics(metrics),
			config.WithWatchHub(hub),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		w.OnChange(a.queueReload)
		w.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info(logging.CategoryLayout, "started", "demo started", map[string]any{
		"config": *configPath,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.run(gctx)
	})
	if cfg.Metrics.Enabled {
		serveMetrics(gctx, g, cfg.Metrics.Addr)
	}
	return g.Wait()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// serveMetrics exposes /metrics until ctx is done. A listen failure ends
// the group.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}
