package ports

import (
	"context"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// Engine is the boundary contract consumed from the transformation engine.
//
// Recoverable outcomes are reported through the result values (ParseResult,
// ApplyResult). A non-nil error from any method other than Initialize is an
// engine fault and ends the session.
type Engine interface {
	// Initialize resolves a task specifier.
	// It returns a *domain.LoadError if the task is unknown or invalid.
	Initialize(ctx context.Context, task string) (domain.EngineContext, error)

	// InitialState builds the snapshot bound to branch 0.
	InitialState(ctx context.Context, ec domain.EngineContext) (domain.StateHandle, error)

	// ParseCommand turns raw command text into an engine command or a syntax error.
	ParseCommand(ctx context.Context, ec domain.EngineContext, text string) (domain.ParseResult, error)

	// Apply runs a parsed command against a snapshot. It must not modify state.
	Apply(ctx context.Context, state domain.StateHandle, cmd domain.Command) (domain.ApplyResult, error)

	// RenderGoals renders goal references into display strings, preserving order.
	RenderGoals(ctx context.Context, goals []domain.Goal) ([]string, error)

	// RenderState renders every open goal of a snapshot.
	RenderState(ctx context.Context, state domain.StateHandle) ([]string, error)
}
