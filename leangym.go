package leangym

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/PatrickMassot/lean-gym/internal/runtime"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/memory"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/ports"
)

// StoreFactory creates the branch store of a new session, bound to its initial state.
type StoreFactory func(initial domain.StateHandle) ports.BranchStore

// Session is the high-level entry point of the library: one loaded task, its
// branch store and the dispatcher applying commands to it.
type Session struct {
	Task string

	engine     ports.Engine
	ec         domain.EngineContext
	store      ports.BranchStore
	dispatcher *runtime.Dispatcher

	newStore StoreFactory
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	started  sync.Once
}

// Option defines a functional option for configuring the Session.
type Option func(*Session)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStore replaces the in-memory branch store.
func WithStore(factory StoreFactory) Option {
	return func(s *Session) {
		s.newStore = factory
	}
}

// Open loads task into engine and binds branch 0 to its initial state.
// A task that cannot be loaded yields a *domain.LoadError; any other engine
// failure is an engine fault.
func Open(ctx context.Context, engine ports.Engine, task string, opts ...Option) (*Session, error) {
	s := &Session{Task: task, engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.newStore == nil {
		s.newStore = func(initial domain.StateHandle) ports.BranchStore {
			return memory.NewBranchStore(initial)
		}
	}
	s.logger = s.logger.With("task", task)

	ec, err := engine.Initialize(ctx, task)
	if err != nil {
		if errors.Is(err, domain.ErrLoad) {
			return nil, err
		}
		return nil, domain.Fault("initialize", err)
	}

	initial, err := engine.InitialState(ctx, ec)
	if err != nil {
		return nil, domain.Fault("initial state", err)
	}

	s.ec = ec
	s.store = s.newStore(initial)
	s.dispatcher = runtime.NewDispatcher(engine, ec, s.store,
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithLogger(s.logger),
	)
	s.logger.Debug("Session opened")
	return s, nil
}

// Welcome renders branch 0. The first call fires OnSessionStart.
func (s *Session) Welcome(ctx context.Context) (domain.Response, error) {
	resp, err := s.dispatcher.Welcome(ctx)
	if err != nil {
		return domain.Response{}, err
	}
	s.started.Do(func() {
		if s.hooks.OnSessionStart == nil {
			return
		}
		s.hooks.OnSessionStart(ctx, &domain.SessionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSessionStart},
			Task:      s.Task,
			Goals:     len(resp.Goals),
		})
	})
	return resp, nil
}

// DispatchLine handles one raw "<branchId> <command>" request line.
func (s *Session) DispatchLine(ctx context.Context, line string) (domain.Response, error) {
	return s.dispatcher.DispatchLine(ctx, line)
}

// Dispatch applies text to branch id.
func (s *Session) Dispatch(ctx context.Context, id domain.BranchID, text string) (domain.Response, error) {
	return s.dispatcher.Dispatch(ctx, id, text)
}

// Branches returns the number of branches created so far, branch 0 included.
func (s *Session) Branches() int {
	return s.store.Len()
}

// NextID is the id the next successful command will receive.
func (s *Session) NextID() domain.BranchID {
	return s.store.NextID()
}
