package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/PatrickMassot/lean-gym/internal/config"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/runner"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitEnv     = 3
	ExitLoad    = 4
)

// RunOptions contains all the configuration for one session run.
type RunOptions struct {
	Task   string
	Config config.Env

	In  io.Reader
	Out io.Writer

	// Prompt is shown before each request when the session is interactive.
	Prompt *runner.Prompt

	// Stderr receives the engine child's diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// ExitCode maps the error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrUsage):
		return ExitUsage
	case errors.Is(err, domain.ErrEnv):
		return ExitEnv
	case errors.Is(err, domain.ErrLoad):
		return ExitLoad
	default:
		return ExitFailure
	}
}

// ExactTask accepts exactly one positional argument, the task specifier.
func ExactTask(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one task argument, got %d", domain.ErrUsage, len(args))
	}
	return nil
}

// UsageError marks err as a command line usage error.
func UsageError(err error) error {
	if err == nil || errors.Is(err, domain.ErrUsage) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUsage, err)
}
