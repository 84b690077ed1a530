package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/PatrickMassot/lean-gym/internal/config"
	"github.com/PatrickMassot/lean-gym/internal/logging"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/file"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/redis"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/observability"
	"github.com/PatrickMassot/lean-gym/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createLogger returns the diagnostics logger. Stderr only carries logs in
// debug mode; a log file receives them at the configured level.
func createLogger(cfg config.Env) (*slog.Logger, io.Closer) {
	if cfg.LogFile != "" {
		return logging.NewFile(cfg.LogFile, cfg.LogLevel(), cfg.Rotation())
	}
	if cfg.Debug {
		return logging.New(cfg.LogLevel()), nopCloser{}
	}
	return logging.NewNop(), nopCloser{}
}

func createHooks(cfg config.Env, logger *slog.Logger) domain.LifecycleHooks {
	if cfg.Debug || cfg.LogFile != "" {
		return observability.LogHooks(logger)
	}
	return domain.LifecycleHooks{}
}

// startMetrics registers session metrics and serves them on cfg.MetricsAddr.
// The returned stop function shuts the server down.
func startMetrics(cfg config.Env, logger *slog.Logger) (domain.LifecycleHooks, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := observability.NewMetrics(reg)
	if err != nil {
		return domain.LifecycleHooks{}, nil, err
	}

	srv, err := observability.StartServer(cfg.MetricsAddr, observability.NewRouter(reg), logger)
	if err != nil {
		return domain.LifecycleHooks{}, nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Metrics server shutdown failed", "err", err)
		}
	}
	return m.Hooks(), stop, nil
}

// createTranscript opens the configured transcript sinks. It returns nil when
// no sink is configured.
func createTranscript(cfg config.Env) ports.TranscriptSink {
	var sinks teeSink
	if cfg.Transcript != "" {
		sinks = append(sinks, file.New(cfg.Transcript,
			file.WithMaxSize(cfg.TranscriptMaxSize),
			file.WithMaxBackups(cfg.TranscriptMaxBackups),
			file.WithMaxAge(cfg.TranscriptMaxAge),
			file.WithCompress(cfg.TranscriptCompress),
		))
	}
	if cfg.RedisAddr != "" {
		sinks = append(sinks, redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TranscriptTTL)))
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	}
	return sinks
}

// teeSink records every entry to all of its sinks.
type teeSink []ports.TranscriptSink

func (t teeSink) Record(ctx context.Context, entry domain.TranscriptEntry) error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Record(ctx, entry))
	}
	return errors.Join(errs...)
}

func (t teeSink) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
