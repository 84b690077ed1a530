package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/PatrickMassot/lean-gym/internal/config"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/process"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/rewrite"
	"github.com/PatrickMassot/lean-gym/pkg/ports"
)

// createEngine builds the engine selected by cfg. The returned close function
// releases a child engine process and is a no-op for in-process engines.
func createEngine(ctx context.Context, cfg config.Env, stderr io.Writer, logger *slog.Logger) (ports.Engine, func() error, error) {
	switch cfg.Engine {
	case config.EngineProcess:
		pc, err := process.LoadConfig(cfg.EngineConfig)
		if err != nil {
			return nil, nil, err
		}
		opts := []process.Option{process.WithLogger(logger)}
		if stderr != nil {
			opts = append(opts, process.WithStderr(stderr))
		}
		eng, err := process.Start(ctx, pc, cfg.LeanPath, opts...)
		if err != nil {
			return nil, nil, err
		}
		return eng, eng.Close, nil
	case config.EngineRewrite, "":
		return rewrite.New(cfg.LeanPath, rewrite.WithLogger(logger)), func() error { return nil }, nil
	default:
		return nil, nil, UsageError(fmt.Errorf("unknown engine %q", cfg.Engine))
	}
}
