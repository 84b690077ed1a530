package runner

import (
	"context"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// IOHandler defines how the loop talks to its client.
type IOHandler interface {
	// Output emits one response.
	Output(ctx context.Context, resp domain.Response) error

	// Input reads the next request line without its terminator.
	// io.EOF ends the session.
	Input(ctx context.Context) (string, error)
}

// Session is what the loop drives: a welcome response, then one response per line.
type Session interface {
	Welcome(ctx context.Context) (domain.Response, error)
	DispatchLine(ctx context.Context, line string) (domain.Response, error)
}
