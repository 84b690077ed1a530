package process

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/cenkalti/backoff/v4"
)

// startRetries bounds how often a transient start failure is retried.
const startRetries = 3

// token is an opaque value minted by the engine host. It stands in for engine
// contexts, states, goals and commands on the client side.
type token string

func (t token) raw() json.RawMessage {
	return json.RawMessage(t)
}

// Engine implements ports.Engine by forwarding every call to an engine host
// over newline-delimited JSON. Calls are serialized; exactly one request is in
// flight at a time.
type Engine struct {
	mu  sync.Mutex
	seq uint64
	in  io.WriteCloser
	out *bufio.Reader
	enc *json.Encoder

	wait   func() error
	stderr io.Writer
	logger *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStderr sets where the child's stderr goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) {
		e.stderr = w
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		stderr: os.Stderr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) attach(r io.Reader, w io.WriteCloser) {
	e.in = w
	e.out = bufio.NewReader(r)
	e.enc = json.NewEncoder(w)
	e.enc.SetEscapeHTML(false)
}

// Connect speaks the protocol over an existing connection: requests are written
// to w and replies read from r.
func Connect(r io.Reader, w io.WriteCloser, opts ...Option) *Engine {
	e := newEngine(opts)
	e.attach(r, w)
	return e
}

// Start launches the engine host described by cfg with LEAN_PATH set to searchPath.
// Transient start failures are retried with exponential backoff; a missing or
// non-executable command fails immediately.
func Start(ctx context.Context, cfg Config, searchPath string, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(opts)

	var cmd *exec.Cmd
	var stdin io.WriteCloser
	var stdout io.ReadCloser

	start := func() error {
		c := exec.Command(cfg.Command, cfg.Args...)
		c.Dir = cfg.Dir
		c.Env = cfg.environ(searchPath)
		c.Stderr = e.stderr

		in, err := c.StdinPipe()
		if err != nil {
			return backoff.Permanent(err)
		}
		out, err := c.StdoutPipe()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := c.Start(); err != nil {
			if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return backoff.Permanent(err)
			}
			return err
		}
		cmd, stdin, stdout = c, in, out
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), startRetries), ctx)
	notify := func(err error, d time.Duration) {
		e.logger.Warn("Engine start failed, retrying", "command", cfg.Command, "delay", d, "err", err)
	}
	if err := backoff.RetryNotify(start, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to start engine %q: %w", cfg.Command, err)
	}

	e.logger.Debug("Engine started", "command", cfg.Command, "pid", cmd.Process.Pid)
	e.attach(stdout, stdin)
	e.wait = cmd.Wait
	return e, nil
}

// Close ends the session with the host and, for a started child, waits for it to exit.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.in.Close()
	if e.wait != nil {
		if werr := e.wait(); werr != nil {
			return fmt.Errorf("engine exited: %w", werr)
		}
	}
	return err
}

func (e *Engine) call(req request) (reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	req.ID = e.seq
	if err := e.enc.Encode(req); err != nil {
		return reply{}, fmt.Errorf("failed to send %s request: %w", req.Op, err)
	}

	line, err := e.out.ReadBytes('\n')
	if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return reply{}, fmt.Errorf("failed to read %s reply: %w", req.Op, err)
	}

	var rep reply
	if err := json.Unmarshal(line, &rep); err != nil {
		return reply{}, fmt.Errorf("malformed %s reply: %w", req.Op, err)
	}
	if rep.ID != req.ID {
		return reply{}, fmt.Errorf("%s reply has id %d, want %d", req.Op, rep.ID, req.ID)
	}
	if rep.Fault != "" {
		e.logger.Error("Engine host fault", "op", req.Op, "fault", rep.Fault)
		return reply{}, fmt.Errorf("engine host: %s", rep.Fault)
	}
	return rep, nil
}

func tokenOf(kind string, v any) (token, error) {
	t, ok := v.(token)
	if !ok {
		return "", fmt.Errorf("unexpected %s %T", kind, v)
	}
	return t, nil
}

// Initialize asks the host to load task.
func (e *Engine) Initialize(ctx context.Context, task string) (domain.EngineContext, error) {
	rep, err := e.call(request{Op: opInitialize, Task: task})
	if err != nil {
		return nil, err
	}
	if rep.LoadError != nil {
		return nil, &domain.LoadError{Task: task, Reason: *rep.LoadError}
	}
	if len(rep.Context) == 0 {
		return nil, fmt.Errorf("initialize reply carries no context")
	}
	return token(rep.Context), nil
}

// InitialState returns the task's initial state.
func (e *Engine) InitialState(ctx context.Context, ec domain.EngineContext) (domain.StateHandle, error) {
	tc, err := tokenOf("engine context", ec)
	if err != nil {
		return nil, err
	}
	rep, err := e.call(request{Op: opInitialState, Context: tc.raw()})
	if err != nil {
		return nil, err
	}
	if len(rep.State) == 0 {
		return nil, fmt.Errorf("initial_state reply carries no state")
	}
	return token(rep.State), nil
}

// ParseCommand asks the host to parse text.
func (e *Engine) ParseCommand(ctx context.Context, ec domain.EngineContext, text string) (domain.ParseResult, error) {
	tc, err := tokenOf("engine context", ec)
	if err != nil {
		return domain.ParseResult{}, err
	}
	rep, err := e.call(request{Op: opParse, Context: tc.raw(), Text: text})
	if err != nil {
		return domain.ParseResult{}, err
	}
	if rep.SyntaxError != nil {
		return domain.Unparsable(*rep.SyntaxError), nil
	}
	if len(rep.Command) == 0 {
		return domain.ParseResult{}, fmt.Errorf("parse reply carries no command")
	}
	return domain.Accepted(token(rep.Command)), nil
}

// Apply asks the host to apply cmd to state.
func (e *Engine) Apply(ctx context.Context, state domain.StateHandle, cmd domain.Command) (domain.ApplyResult, error) {
	st, err := tokenOf("state handle", state)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	ct, err := tokenOf("command", cmd)
	if err != nil {
		return domain.ApplyResult{}, err
	}

	rep, err := e.call(request{Op: opApply, State: st.raw(), Command: ct.raw()})
	if err != nil {
		return domain.ApplyResult{}, err
	}

	switch domain.ApplyStatus(rep.Status) {
	case domain.ApplyRejected:
		return domain.Rejected(rep.Errors...), nil
	case domain.ApplySucceeded:
		if len(rep.State) == 0 {
			return domain.ApplyResult{}, fmt.Errorf("apply reply carries no state")
		}
		goals := make([]domain.Goal, len(rep.Goals))
		for i, g := range rep.Goals {
			goals[i] = token(g)
		}
		return domain.Succeeded(goals, token(rep.State)), nil
	default:
		return domain.ApplyResult{}, fmt.Errorf("apply reply has status %q", rep.Status)
	}
}

// RenderGoals asks the host to pretty-print goals.
func (e *Engine) RenderGoals(ctx context.Context, goals []domain.Goal) ([]string, error) {
	raws := make([]json.RawMessage, len(goals))
	for i, g := range goals {
		t, err := tokenOf("goal", g)
		if err != nil {
			return nil, err
		}
		raws[i] = t.raw()
	}

	rep, err := e.call(request{Op: opRenderGoals, Goals: raws})
	if err != nil {
		return nil, err
	}
	if len(rep.Rendered) != len(goals) {
		return nil, fmt.Errorf("render_goals returned %d goals, want %d", len(rep.Rendered), len(goals))
	}
	return rep.Rendered, nil
}

// RenderState asks the host to pretty-print every open goal of state.
func (e *Engine) RenderState(ctx context.Context, state domain.StateHandle) ([]string, error) {
	st, err := tokenOf("state handle", state)
	if err != nil {
		return nil, err
	}
	rep, err := e.call(request{Op: opRenderState, State: st.raw()})
	if err != nil {
		return nil, err
	}
	return rep.Rendered, nil
}
