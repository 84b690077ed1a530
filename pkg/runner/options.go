package runner

import (
	"log/slog"

	"github.com/PatrickMassot/lean-gym/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithTranscript records every emitted response to sink.
func WithTranscript(sink ports.TranscriptSink) Option {
	return func(r *Runner) {
		r.Transcript = sink
	}
}

// WithSessionID sets the session id used in transcript entries.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}
