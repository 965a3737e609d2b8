package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/iconsite/internal/build"
	"git.home.luguber.info/inful/iconsite/internal/config"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/metrics"
	"git.home.luguber.info/inful/iconsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	KeepGoing bool `name:"keep-going" short:"k" help:"Keep watching after a failed build (overrides watch.keep_going)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.KeepGoing {
		cfg.Watch.KeepGoing = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Listen != "" {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		stop, err := serveMetrics(cfg.Metrics, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	svc := build.NewService(cfg).WithRecorder(recorder)
	return watch.New(cfg, svc, recorder).Run(ctx)
}

// serveMetrics exposes /metrics on the configured address until stop is called.
func serveMetrics(cfg config.MetricsConfig, reg *prom.Registry) (stop func(), err error) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, errors.RuntimeError("metrics listener").WithCause(err).WithContext("address", cfg.Listen).Build()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	slog.Info("Serving metrics", slog.String("address", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("Metrics server shutdown error", "error", err)
		}
	}, nil
}
