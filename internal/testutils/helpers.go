package testutils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/stretchr/testify/require"
)

// ErrFault is the error FakeEngine returns for commands marked as faulty.
var ErrFault = errors.New("engine crashed")

// Step describes what applying a command to a state does.
type Step struct {
	Next   string   // resulting state name on success
	Errors []string // semantic errors; Next is ignored when set
	Reject bool     // reject even when Errors is empty
}

// FakeEngine is a scripted ports.Engine. States are plain strings, goals are the
// strings listed in Goals, and commands are their own text.
type FakeEngine struct {
	Tasks       map[string]string          // task name -> initial state
	Goals       map[string][]string        // state -> open goals
	Steps       map[string]map[string]Step // state -> command -> step
	SyntaxError map[string]string          // command -> syntax error message
	Faults      map[string]bool            // commands whose Apply faults

	Applies int
}

// NewAddCommEngine returns a FakeEngine scripted with the Nat.add_comm walkthrough.
func NewAddCommEngine() *FakeEngine {
	return &FakeEngine{
		Tasks: map[string]string{"Nat.add_comm": "s0"},
		Goals: map[string][]string{
			"s0": {"⊢ ∀ (n m : Nat), n + m = m + n"},
			"s1": {"n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"},
			"s2": {"n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"},
			"s3": {},
		},
		Steps: map[string]map[string]Step{
			"s0": {"intros": {Next: "s1"}},
			"s1": {
				"rewrite [Nat.add_comm]": {Next: "s2"},
				"rfl":                    {Errors: []string{"The rfl tactic failed"}},
			},
			"s2": {"rfl": {Next: "s3"}},
		},
		SyntaxError: map[string]string{"rewrite [": "unexpected end of input; expected term"},
		Faults:      map[string]bool{"crash": true},
	}
}

func (e *FakeEngine) Initialize(ctx context.Context, task string) (domain.EngineContext, error) {
	state, ok := e.Tasks[task]
	if !ok {
		return nil, &domain.LoadError{Task: task, Reason: "unknown declaration"}
	}
	return state, nil
}

func (e *FakeEngine) InitialState(ctx context.Context, ec domain.EngineContext) (domain.StateHandle, error) {
	return ec, nil
}

func (e *FakeEngine) ParseCommand(ctx context.Context, ec domain.EngineContext, text string) (domain.ParseResult, error) {
	if msg, ok := e.SyntaxError[text]; ok {
		return domain.Unparsable(msg), nil
	}
	return domain.Accepted(text), nil
}

func (e *FakeEngine) Apply(ctx context.Context, state domain.StateHandle, cmd domain.Command) (domain.ApplyResult, error) {
	e.Applies++
	name := cmd.(string)
	if e.Faults[name] {
		return domain.ApplyResult{}, ErrFault
	}
	step, ok := e.Steps[state.(string)][name]
	if !ok {
		return domain.Rejected(fmt.Sprintf("unknown tactic %q", name)), nil
	}
	if step.Reject || len(step.Errors) > 0 {
		return domain.Rejected(step.Errors...), nil
	}
	goals := make([]domain.Goal, 0, len(e.Goals[step.Next]))
	for _, g := range e.Goals[step.Next] {
		goals = append(goals, g)
	}
	return domain.Succeeded(goals, step.Next), nil
}

func (e *FakeEngine) RenderGoals(ctx context.Context, goals []domain.Goal) ([]string, error) {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		s, ok := g.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected goal type %T", g)
		}
		out = append(out, s)
	}
	return out, nil
}

func (e *FakeEngine) RenderState(ctx context.Context, state domain.StateHandle) ([]string, error) {
	return append([]string{}, e.Goals[state.(string)]...), nil
}

// AddCommCatalog is the rewrite catalog for the Nat.add_comm walkthrough.
const AddCommCatalog = `tasks:
  - name: Nat.add_comm
    goal: "⊢ ∀ (n m : Nat), n + m = m + n"
rules:
  - tactic: intros
    from: "⊢ ∀ (n m : Nat), n + m = m + n"
    to:
      - "n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"
  - tactic: rewrite [Nat.add_comm]
    from: "n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"
    to:
      - "n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"
  - tactic: rfl
    from: "n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"
    to: []
`

// WriteCatalog writes a catalog file into a fresh temp directory and returns the directory.
func WriteCatalog(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	require.NoError(t, err, "Failed to write catalog")
	return dir
}
