package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/PatrickMassot/lean-gym/internal/config"
	"github.com/PatrickMassot/lean-gym/internal/presentation/graph"
	"github.com/PatrickMassot/lean-gym/internal/validator"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/process"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/rewrite"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// ServeEngine runs the rewrite engine as an engine host on r and w, the
// counterpart of the process engine.
func ServeEngine(ctx context.Context, cfg config.Env, r io.Reader, w io.Writer) error {
	logger, closer := createLogger(cfg)
	defer closer.Close()

	logger.Info("Engine host started", "lean_path", cfg.LeanPath)
	return process.Serve(ctx, rewrite.New(cfg.LeanPath, rewrite.WithLogger(logger)), r, w)
}

// ListTasks prints every task the rewrite engine finds on the search path,
// one per line.
func ListTasks(ctx context.Context, cfg config.Env, w io.Writer) error {
	names, err := rewrite.New(cfg.LeanPath).Tasks(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the catalogs on the search path, printing one problem per
// line. It fails when any problem is found.
func Validate(cfg config.Env, w io.Writer) error {
	problems, err := validator.ValidateSearchPath(cfg.LeanPath)
	if err != nil {
		return err
	}
	for _, p := range problems {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("found %d catalog problems", len(problems))
	}
	return nil
}

// Graph writes the Mermaid flowchart of the rules reachable from task.
func Graph(cfg config.Env, task string, w io.Writer) error {
	cat, def, err := rewrite.New(cfg.LeanPath).Find(task)
	if err != nil {
		return err
	}
	if cat == nil {
		return &domain.LoadError{Task: task, Reason: "unknown declaration"}
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(cat, def))
	return err
}
