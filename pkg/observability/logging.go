package observability

import (
	"context"
	"log/slog"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// LogHooks writes every lifecycle event to logger.
// Successful dispatches log at Info, rejected ones at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session_start", "task", e.Task, "goals", e.Goals)
		},
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			var attrs []any
			if e.Source != nil {
				attrs = append(attrs, "source", *e.Source)
			}
			attrs = append(attrs,
				"command", e.Command,
				"outcome", e.Outcome,
				"duration", e.Duration,
			)
			if e.NewBranch != nil {
				attrs = append(attrs, "new_branch", *e.NewBranch, "goals", e.Goals)
			}
			if len(e.Errors) > 0 {
				attrs = append(attrs, "errors", e.Errors)
				logger.WarnContext(ctx, "dispatch", attrs...)
				return
			}
			logger.InfoContext(ctx, "dispatch", attrs...)
		},
	}
}
