package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PatrickMassot/lean-gym/internal/testutils"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logicCatalog = `tasks:
  - name: and_swap
    goals:
      - "h : p ∧ q\n⊢ q"
      - "h : p ∧ q\n⊢ p"
  - name: broken
rules:
  - tactic: exact h.2
    from: "h : p ∧ q\n⊢ q"
  - tactic: exact h.1
    from: "h : p ∧ q\n⊢ p"
    to: []
  - tactic: constructor
    to: ["⊢ left", "⊢ right"]
`

func load(t *testing.T, eng *Engine, task string) (domain.EngineContext, domain.StateHandle) {
	t.Helper()
	ctx := context.Background()
	ec, err := eng.Initialize(ctx, task)
	require.NoError(t, err)
	state, err := eng.InitialState(ctx, ec)
	require.NoError(t, err)
	return ec, state
}

func apply(t *testing.T, eng *Engine, ec domain.EngineContext, state domain.StateHandle, text string) domain.ApplyResult {
	t.Helper()
	ctx := context.Background()
	parsed, err := eng.ParseCommand(ctx, ec, text)
	require.NoError(t, err)
	require.True(t, parsed.OK(), "unexpected syntax error: %+v", parsed.Syntax)
	res, err := eng.Apply(ctx, state, parsed.Command)
	require.NoError(t, err)
	return res
}

func render(t *testing.T, eng *Engine, res domain.ApplyResult) []string {
	t.Helper()
	out, err := eng.RenderGoals(context.Background(), res.Goals)
	require.NoError(t, err)
	return out
}

func TestEngine_AddCommWalkthrough(t *testing.T) {
	dir := testutils.WriteCatalog(t, "Nat.yaml", testutils.AddCommCatalog)
	eng := New(dir)
	ec, s0 := load(t, eng, "Nat.add_comm")

	goals, err := eng.RenderState(context.Background(), s0)
	require.NoError(t, err)
	assert.Equal(t, []string{"⊢ ∀ (n m : Nat), n + m = m + n"}, goals)

	r1 := apply(t, eng, ec, s0, "intros")
	require.True(t, r1.OK())
	assert.Equal(t, []string{"n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"}, render(t, eng, r1))

	r2 := apply(t, eng, ec, r1.State, "rewrite   [Nat.add_comm]")
	require.True(t, r2.OK())
	assert.Equal(t, []string{"n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"}, render(t, eng, r2))

	r3 := apply(t, eng, ec, r2.State, "rfl")
	require.True(t, r3.OK())
	assert.Empty(t, r3.Goals)

	// Earlier snapshots are untouched.
	goals, err = eng.RenderState(context.Background(), r1.State)
	require.NoError(t, err)
	assert.Equal(t, []string{"n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"}, goals)
}

func TestEngine_SemanticErrors(t *testing.T) {
	dir := testutils.WriteCatalog(t, "Nat.yaml", testutils.AddCommCatalog)
	eng := New(dir)
	ec, s0 := load(t, eng, "Nat.add_comm")

	res := apply(t, eng, ec, s0, "rfl")
	assert.False(t, res.OK())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "tactic 'rfl' failed")

	res = apply(t, eng, ec, s0, "done")
	assert.False(t, res.OK())
	assert.True(t, strings.HasPrefix(res.Errors[0], "unsolved goals"))

	res = apply(t, eng, ec, s0, "swap")
	assert.Equal(t, []string{"swap failed: fewer than two goals"}, res.Errors)

	closed := apply(t, eng, ec, s0, "sorry")
	require.True(t, closed.OK())
	res = apply(t, eng, ec, closed.State, "intros")
	assert.Equal(t, []string{"no goals to be proved"}, res.Errors)
}

func TestEngine_SyntaxErrors(t *testing.T) {
	dir := testutils.WriteCatalog(t, "Nat.yaml", testutils.AddCommCatalog)
	eng := New(dir)
	ec, _ := load(t, eng, "Nat.add_comm")

	tests := map[string]string{
		"":                      "unexpected end of input; expected tactic",
		"   ":                   "unexpected end of input; expected tactic",
		"rewrite [Nat.add_comm": "unexpected end of input; expected ']'",
		"rewrite ]":             "unexpected token ']'",
		"rewrite (h]":           "unexpected token ']'",
		"simp":                  "unknown tactic 'simp'",
	}
	for text, want := range tests {
		parsed, err := eng.ParseCommand(context.Background(), ec, text)
		require.NoError(t, err)
		require.False(t, parsed.OK(), text)
		assert.Equal(t, want, parsed.Syntax.Message, text)
	}
}

func TestEngine_MultipleGoals(t *testing.T) {
	dir := testutils.WriteCatalog(t, "logic.yaml", logicCatalog)
	eng := New(dir)
	ec, s0 := load(t, eng, "and_swap")

	swapped := apply(t, eng, ec, s0, "swap")
	assert.Equal(t, []string{"h : p ∧ q\n⊢ p", "h : p ∧ q\n⊢ q"}, render(t, eng, swapped))

	rotated := apply(t, eng, ec, s0, "rotate")
	assert.Equal(t, []string{"h : p ∧ q\n⊢ p", "h : p ∧ q\n⊢ q"}, render(t, eng, rotated))

	skipped := apply(t, eng, ec, s0, "skip")
	assert.Equal(t, []string{"h : p ∧ q\n⊢ q", "h : p ∧ q\n⊢ p"}, render(t, eng, skipped))

	// A rule without "to" closes the goal; one without "from" matches any goal.
	r1 := apply(t, eng, ec, s0, "exact h.2")
	assert.Equal(t, []string{"h : p ∧ q\n⊢ p"}, render(t, eng, r1))

	split := apply(t, eng, ec, s0, "constructor")
	assert.Equal(t, []string{"⊢ left", "⊢ right", "h : p ∧ q\n⊢ p"}, render(t, eng, split))

	r2 := apply(t, eng, ec, r1.State, "exact h.1")
	require.True(t, r2.OK())
	assert.Empty(t, r2.Goals)
}

func TestEngine_StructuralSharing(t *testing.T) {
	dir := testutils.WriteCatalog(t, "logic.yaml", logicCatalog)
	eng := New(dir)
	ec, s0 := load(t, eng, "and_swap")

	res := apply(t, eng, ec, s0, "constructor")
	next := res.State.(*snapshot)
	_, parentTail, _ := s0.(*snapshot).main()

	tail := next.goals
	for i := 0; i < 2; i++ {
		tail, _ = tail.Tail()
	}
	assert.True(t, tail == parentTail, "derived snapshot should share the untouched goals")
}

func TestEngine_LoadErrors(t *testing.T) {
	dir := testutils.WriteCatalog(t, "logic.yaml", logicCatalog)
	eng := New(dir)

	for _, task := range []string{"missing", "broken", ""} {
		_, err := eng.Initialize(context.Background(), task)
		require.Error(t, err, task)
		assert.ErrorIs(t, err, domain.ErrLoad)

		var lerr *domain.LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, task, lerr.Task)
	}
}

func TestEngine_SearchPathOrder(t *testing.T) {
	first := testutils.WriteCatalog(t, "a.yaml", "tasks:\n  - name: t\n    goal: \"⊢ first\"\n")
	second := testutils.WriteCatalog(t, "a.yaml", "tasks:\n  - name: t\n    goal: \"⊢ second\"\n  - name: u\n    goal: \"⊢ u\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(first, "bad.yaml"), []byte("tasks: [unterminated"), 0o644))

	eng := New(strings.Join([]string{filepath.Join(first, "missing"), first, second}, string(os.PathListSeparator)))
	_, s := load(t, eng, "t")

	goals, err := eng.RenderState(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"⊢ first"}, goals)

	tasks, err := eng.Tasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "u"}, tasks)
}

func TestEngine_ForeignValues(t *testing.T) {
	eng := New("")

	_, err := eng.InitialState(context.Background(), "not a context")
	assert.Error(t, err)
	_, err = eng.RenderGoals(context.Background(), []domain.Goal{"plain string"})
	assert.Error(t, err)
	_, err = eng.Apply(context.Background(), "state", nil)
	assert.Error(t, err)
}
