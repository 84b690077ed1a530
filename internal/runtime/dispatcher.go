package runtime

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
)

// DefaultRejection is reported when the engine rejects a command without saying why.
const DefaultRejection = "command failed"

// Dispatcher applies commands to branches.
// Each dispatch walks Received -> BranchResolved -> CommandParsed -> Applied -> Responded,
// leaving the store untouched on every early exit.
type Dispatcher struct {
	engine ports.Engine
	ec     domain.EngineContext
	store  ports.BranchStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over an initialized engine context and a store
// that already holds branch 0.
func NewDispatcher(engine ports.Engine, ec domain.EngineContext, store ports.BranchStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine: engine,
		ec:     ec,
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Welcome renders branch 0.
func (d *Dispatcher) Welcome(ctx context.Context) (domain.Response, error) {
	state, err := d.store.Get(domain.RootBranch)
	if err != nil {
		return domain.Response{}, fmt.Errorf("session has no root branch: %w", err)
	}
	goals, err := d.engine.RenderState(ctx, state)
	if err != nil {
		return domain.Response{}, domain.Fault("render state", err)
	}
	return domain.BranchResponse(domain.RootBranch, goals), nil
}

// DispatchLine parses a raw "<branchId> <command>" line and dispatches it.
// Malformed lines produce an error response; the returned error is reserved for engine faults.
func (d *Dispatcher) DispatchLine(ctx context.Context, line string) (domain.Response, error) {
	id, text, err := protocol.ParseLine(line)
	if err != nil {
		resp, outcome := domain.ErrorResponse(err.Error()), domain.OutcomeParseError
		if errors.Is(err, domain.ErrUnknownBranch) {
			resp, outcome = domain.ErrorResponse(domain.ErrUnknownBranch.Error()), domain.OutcomeUnknownBranch
		}
		d.emit(ctx, &domain.DispatchEvent{
			Command: line,
			Outcome: outcome,
			Errors:  resp.Errors,
		})
		return resp, nil
	}
	return d.Dispatch(ctx, id, text)
}

// Dispatch applies text to the state bound to id.
func (d *Dispatcher) Dispatch(ctx context.Context, id domain.BranchID, text string) (domain.Response, error) {
	start := time.Now()

	resp, outcome, err := d.dispatch(ctx, id, text)
	if err != nil {
		d.logger.Error("Dispatch failed", "branch", id, "command", text, "err", err)
		return domain.Response{}, err
	}

	d.logger.Debug("Dispatched", "branch", id, "command", text, "outcome", outcome)
	d.emit(ctx, &domain.DispatchEvent{
		Source:    &id,
		Command:   text,
		Outcome:   outcome,
		NewBranch: resp.Branch,
		Goals:     len(resp.Goals),
		Errors:    resp.Errors,
		Duration:  time.Since(start),
	})
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, id domain.BranchID, text string) (domain.Response, domain.Outcome, error) {
	// Received
	state, err := d.store.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownBranch) {
			return domain.ErrorResponse(domain.ErrUnknownBranch.Error()), domain.OutcomeUnknownBranch, nil
		}
		return domain.Response{}, "", err
	}

	// BranchResolved
	parsed, err := d.engine.ParseCommand(ctx, d.ec, text)
	if err != nil {
		return domain.Response{}, "", domain.Fault("parse command", err)
	}
	if !parsed.OK() {
		msg := parsed.Syntax.Message
		if msg == "" {
			msg = "syntax error"
		}
		return domain.ErrorResponse(msg), domain.OutcomeSyntaxError, nil
	}

	// CommandParsed
	result, err := d.engine.Apply(ctx, state, parsed.Command)
	if err != nil {
		return domain.Response{}, "", domain.Fault("apply", err)
	}

	// Applied
	switch result.Status {
	case domain.ApplyRejected:
		msgs := append([]string(nil), result.Errors...)
		if len(msgs) == 0 {
			msgs = []string{DefaultRejection}
		}
		return domain.ErrorResponse(msgs...), domain.OutcomeSemanticError, nil
	case domain.ApplySucceeded:
	default:
		return domain.Response{}, "", domain.Fault("apply", fmt.Errorf("unexpected result status %q", result.Status))
	}

	if len(result.Goals) == 0 {
		return domain.SolvedResponse(), domain.OutcomeSolved, nil
	}

	// Render before inserting so a render fault never leaves an unreported branch behind.
	goals, err := d.engine.RenderGoals(ctx, result.Goals)
	if err != nil {
		return domain.Response{}, "", domain.Fault("render goals", err)
	}

	newID := d.store.Insert(result.State)
	return domain.BranchResponse(newID, goals), domain.OutcomeBranched, nil
}

func (d *Dispatcher) emit(ctx context.Context, e *domain.DispatchEvent) {
	if d.hooks.OnDispatch == nil {
		return
	}
	e.Timestamp = time.Now()
	e.Type = domain.EventDispatch
	d.hooks.OnDispatch(ctx, e)
}
