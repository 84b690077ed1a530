package rewrite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/Workiva/go-datastructures/list"
)

// Engine implements ports.Engine over rule catalogs found on a search path.
// It is deterministic: the same tactic on the same snapshot always yields the same goals.
type Engine struct {
	searchPath []string
	logger     *slog.Logger
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

// New creates an engine searching the directories of searchPath (an OS path list).
func New(searchPath string, opts ...Option) *Engine {
	e := &Engine{
		searchPath: filepath.SplitList(searchPath),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// taskContext is the EngineContext of a loaded task.
type taskContext struct {
	task    TaskDef
	catalog *Catalog
	heads   map[string]bool
}

// Initialize finds the first catalog on the search path that declares task.
func (e *Engine) Initialize(ctx context.Context, task string) (domain.EngineContext, error) {
	if strings.TrimSpace(task) == "" {
		return nil, &domain.LoadError{Task: task, Reason: "empty task name"}
	}

	found, def, err := e.Find(task)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, &domain.LoadError{Task: task, Reason: "unknown declaration"}
	}

	goals := def.InitialGoals()
	if len(goals) == 0 {
		return nil, &domain.LoadError{Task: task, Reason: "not a valid task: no goals"}
	}
	for _, g := range goals {
		if strings.TrimSpace(g) == "" {
			return nil, &domain.LoadError{Task: task, Reason: "not a valid task: empty goal"}
		}
	}

	heads := make(map[string]bool)
	for _, r := range found.Rules {
		head, _, _ := strings.Cut(r.Tactic, " ")
		heads[head] = true
	}

	e.logger.Debug("Task loaded", "task", task, "catalog", found.Path, "goals", len(goals), "rules", len(found.Rules))
	return &taskContext{task: def, catalog: found, heads: heads}, nil
}

// Find returns the first catalog on the search path that declares task, or a
// nil catalog when none does.
func (e *Engine) Find(task string) (*Catalog, TaskDef, error) {
	var found *Catalog
	var def TaskDef
	err := e.walk(func(cat *Catalog) bool {
		if t, ok := cat.Task(task); ok {
			found, def = cat, t
			return false
		}
		return true
	})
	return found, def, err
}

// Tasks lists every task name on the search path, sorted and without duplicates.
func (e *Engine) Tasks(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := e.walk(func(cat *Catalog) bool {
		for _, t := range cat.Tasks {
			if t.Name != "" {
				seen[t.Name] = true
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// walk visits catalogs in search-path order until visit returns false.
// Unreadable or malformed catalogs are skipped.
func (e *Engine) walk(visit func(*Catalog) bool) error {
	for _, dir := range e.searchPath {
		if dir == "" {
			continue
		}
		files, err := CatalogFiles(dir)
		if err != nil {
			e.logger.Warn("Skipping search path entry", "dir", dir, "err", err)
			continue
		}
		for _, path := range files {
			cat, err := LoadCatalog(path)
			if err != nil {
				e.logger.Warn("Skipping catalog", "path", path, "err", err)
				continue
			}
			if !visit(cat) {
				return nil
			}
		}
	}
	return nil
}

// InitialState builds the snapshot holding the task's goals.
func (e *Engine) InitialState(ctx context.Context, ec domain.EngineContext) (domain.StateHandle, error) {
	tc, err := taskOf(ec)
	if err != nil {
		return nil, err
	}
	return newSnapshot(tc.task.InitialGoals()), nil
}

// ParseCommand accepts tactic text whose head is a built-in or a rule tactic of the task's catalog.
func (e *Engine) ParseCommand(ctx context.Context, ec domain.EngineContext, text string) (domain.ParseResult, error) {
	tc, err := taskOf(ec)
	if err != nil {
		return domain.ParseResult{}, err
	}
	tac, msg := parseTactic(text, tc.heads)
	if msg != "" {
		return domain.Unparsable(msg), nil
	}
	return domain.Accepted(&boundTactic{tactic: tac, rules: tc.catalog.Rules}), nil
}

// boundTactic is a parsed tactic together with the rules it may use.
type boundTactic struct {
	tactic
	rules []Rule
}

// Apply runs a tactic on the main goal of state.
func (e *Engine) Apply(ctx context.Context, state domain.StateHandle, cmd domain.Command) (domain.ApplyResult, error) {
	s, ok := state.(*snapshot)
	if !ok {
		return domain.ApplyResult{}, fmt.Errorf("unexpected state handle %T", state)
	}
	bt, ok := cmd.(*boundTactic)
	if !ok {
		return domain.ApplyResult{}, fmt.Errorf("unexpected command %T", cmd)
	}

	if bt.head == tacticDone {
		if s.goals.IsEmpty() {
			return succeeded(s), nil
		}
		return domain.Rejected("unsolved goals\n" + strings.Join(s.texts(), "\n\n")), nil
	}

	mainGoal, rest, ok := s.main()
	if !ok {
		return domain.Rejected("no goals to be proved"), nil
	}

	switch bt.head {
	case tacticSkip:
		return succeeded(s), nil
	case tacticSorry, tacticAdmit:
		return succeeded(&snapshot{goals: rest}), nil
	case tacticSwap:
		second, tail, ok := (&snapshot{goals: rest}).main()
		if !ok {
			return domain.Rejected("swap failed: fewer than two goals"), nil
		}
		return succeeded(&snapshot{goals: tail.Add(mainGoal).Add(second)}), nil
	case tacticRotate:
		goals := s.all()
		rotated := list.Empty.Add(goals[0])
		for i := len(goals) - 1; i >= 1; i-- {
			rotated = rotated.Add(goals[i])
		}
		return succeeded(&snapshot{goals: rotated}), nil
	}

	for _, r := range bt.rules {
		if r.Tactic != bt.text || (r.From != "" && r.From != mainGoal.text) {
			continue
		}
		return succeeded(&snapshot{goals: push(rest, r.To)}), nil
	}

	return domain.Rejected(fmt.Sprintf("tactic '%s' failed, main goal:\n%s", bt.text, mainGoal.text)), nil
}

func succeeded(s *snapshot) domain.ApplyResult {
	goals := s.all()
	refs := make([]domain.Goal, len(goals))
	for i, g := range goals {
		refs[i] = g
	}
	return domain.Succeeded(refs, s)
}

// RenderGoals returns goal text verbatim.
func (e *Engine) RenderGoals(ctx context.Context, goals []domain.Goal) ([]string, error) {
	out := make([]string, len(goals))
	for i, g := range goals {
		ref, ok := g.(goal)
		if !ok {
			return nil, fmt.Errorf("unexpected goal reference %T", g)
		}
		out[i] = ref.text
	}
	return out, nil
}

// RenderState renders every open goal of state.
func (e *Engine) RenderState(ctx context.Context, state domain.StateHandle) ([]string, error) {
	s, ok := state.(*snapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected state handle %T", state)
	}
	return s.texts(), nil
}

func taskOf(ec domain.EngineContext) (*taskContext, error) {
	tc, ok := ec.(*taskContext)
	if !ok {
		return nil, fmt.Errorf("unexpected engine context %T", ec)
	}
	return tc, nil
}
