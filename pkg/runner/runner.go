package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/ports"
	"github.com/PatrickMassot/lean-gym/pkg/protocol"
	"github.com/google/uuid"
)

// Runner handles the read-dispatch-print loop of a session using the provided IO.
// Exactly one request is in flight at a time.
type Runner struct {
	// Handler is the strategy for IO. If nil, stdin/stdout JSON lines are used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Transcript receives every emitted response. Optional.
	Transcript ports.TranscriptSink

	// SessionID tags transcript entries. Defaults to a random UUID.
	SessionID string

	seq uint64
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run emits the welcome response, then answers each input line until the input
// is exhausted. A nil return means a clean end of input. Engine faults and IO
// failures are returned as errors, after which nothing more is written.
func (r *Runner) Run(ctx context.Context, session Session) error {
	handler := r.resolveHandler()

	welcome, err := session.Welcome(ctx)
	if err != nil {
		return err
	}
	if err := r.emit(ctx, handler, "", welcome); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("Input closed", "session", r.SessionID, "exchanges", r.seq)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		resp, err := session.DispatchLine(ctx, line)
		if err != nil {
			return err
		}
		if err := r.emit(ctx, handler, line, resp); err != nil {
			return err
		}
	}
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewJSONHandler(nil, nil)
	}
	return r.Handler
}

func (r *Runner) emit(ctx context.Context, handler IOHandler, input string, resp domain.Response) error {
	if err := handler.Output(ctx, resp); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	r.record(ctx, input, resp)
	return nil
}

// record writes a transcript entry. Failures are logged and never end the session.
func (r *Runner) record(ctx context.Context, input string, resp domain.Response) {
	if r.Transcript == nil {
		return
	}
	seq := r.seq
	r.seq++

	data, err := protocol.Marshal(resp)
	if err != nil {
		r.Logger.Warn("Failed to encode transcript entry", "seq", seq, "err", err)
		return
	}
	entry := domain.TranscriptEntry{
		Session:  r.SessionID,
		Seq:      seq,
		Input:    input,
		Response: string(data),
		Time:     time.Now().UTC(),
	}
	if err := r.Transcript.Record(ctx, entry); err != nil {
		r.Logger.Warn("Failed to record transcript entry", "session", r.SessionID, "seq", seq, "err", err)
	}
}
