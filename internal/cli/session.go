package cli

import (
	"context"
	"os"

	leangym "github.com/PatrickMassot/lean-gym"
	"github.com/PatrickMassot/lean-gym/pkg/runner"
)

// RunSession loads opts.Task and serves the request loop until the input is
// exhausted. Errors returned before the welcome line leave the output empty.
func RunSession(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser := createLogger(cfg)
	defer logCloser.Close()

	hooks := createHooks(cfg, logger)
	if cfg.MetricsAddr != "" {
		metricsHooks, stop, err := startMetrics(cfg, logger)
		if err != nil {
			return err
		}
		defer stop()
		hooks = hooks.Merge(metricsHooks)
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	engine, closeEngine, err := createEngine(ctx, cfg, stderr, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeEngine(); err != nil {
			logger.Warn("Engine shutdown failed", "err", err)
		}
	}()

	sess, err := leangym.Open(ctx, engine, opts.Task,
		leangym.WithLogger(logger),
		leangym.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return err
	}

	handler := runner.NewJSONHandler(opts.In, opts.Out)
	handler.Prompt = opts.Prompt

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	}
	if sink := createTranscript(cfg); sink != nil {
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Warn("Transcript close failed", "err", err)
			}
		}()
		runnerOpts = append(runnerOpts, runner.WithTranscript(sink))
	}

	r := runner.NewRunner(runnerOpts...)
	logger.Info("Session started", "session", r.SessionID, "task", opts.Task, "engine", cfg.Engine)
	return r.Run(ctx, sess)
}
