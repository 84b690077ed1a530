package runtime

import (
	"context"
	"testing"

	"github.com/PatrickMassot/lean-gym/internal/testutils"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/memory"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, opts ...Option) (*Dispatcher, *memory.BranchStore, *testutils.FakeEngine) {
	t.Helper()
	ctx := context.Background()

	eng := testutils.NewAddCommEngine()
	ec, err := eng.Initialize(ctx, "Nat.add_comm")
	require.NoError(t, err)
	initial, err := eng.InitialState(ctx, ec)
	require.NoError(t, err)

	store := memory.NewBranchStore(initial)
	return NewDispatcher(eng, ec, store, opts...), store, eng
}

func branchOf(t *testing.T, resp domain.Response) domain.BranchID {
	t.Helper()
	require.NotNil(t, resp.Branch, "expected a branch in %+v", resp)
	return *resp.Branch
}

func TestDispatcher_Welcome(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp, err := d.Welcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RootBranch, branchOf(t, resp))
	assert.Equal(t, []string{"⊢ ∀ (n m : Nat), n + m = m + n"}, resp.Goals)
	assert.Empty(t, resp.Errors)
}

func TestDispatcher_Walkthrough(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, err := d.DispatchLine(ctx, "0 intros")
	require.NoError(t, err)
	assert.Equal(t, domain.BranchID(1), branchOf(t, resp))
	assert.Equal(t, []string{"n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"}, resp.Goals)

	resp, err = d.DispatchLine(ctx, "1 rewrite [Nat.add_comm]")
	require.NoError(t, err)
	assert.Equal(t, domain.BranchID(2), branchOf(t, resp))
	assert.Equal(t, []string{"n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"}, resp.Goals)

	resp, err = d.DispatchLine(ctx, "2 rfl")
	require.NoError(t, err)
	assert.True(t, resp.Solved())
	assert.Empty(t, resp.Goals)

	// Solving allocates nothing.
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, domain.BranchID(3), store.NextID())
}

func TestDispatcher_ParseError(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	resp, err := d.DispatchLine(context.Background(), "abc foo")
	require.NoError(t, err)
	assert.Nil(t, resp.Branch)
	assert.Empty(t, resp.Goals)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "parse error")
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, eng.Applies)
}

func TestDispatcher_UnknownBranch(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), 7, "intros")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorResponse("unknown branch id"), resp)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, domain.BranchID(1), store.NextID())
	assert.Zero(t, eng.Applies)
}

func TestDispatcher_OverflowingBranchID(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	resp, err := d.DispatchLine(context.Background(), "99999999999999999999 intros")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorResponse("unknown branch id"), resp)
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, eng.Applies)
}

func TestDispatcher_BlankLines(t *testing.T) {
	d, store, _ := newTestDispatcher(t)

	for _, line := range []string{"", "   "} {
		resp, err := d.DispatchLine(context.Background(), line)
		require.NoError(t, err)
		assert.Nil(t, resp.Branch)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "parse error")
	}
	assert.Equal(t, 1, store.Len())
}

func TestDispatcher_SyntaxError(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), 0, "rewrite [")
	require.NoError(t, err)
	assert.Equal(t, []string{"unexpected end of input; expected term"}, resp.Errors)
	assert.Nil(t, resp.Branch)
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, eng.Applies)
}

func TestDispatcher_SemanticErrorLeavesSourceIntact(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, 0, "intros")
	require.NoError(t, err)
	before, err := store.Get(1)
	require.NoError(t, err)

	resp, err := d.Dispatch(ctx, 1, "rfl")
	require.NoError(t, err)
	assert.Equal(t, []string{"The rfl tactic failed"}, resp.Errors)
	assert.Nil(t, resp.Branch)
	assert.Empty(t, resp.Goals)

	after, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.BranchID(2), store.NextID())

	// The failed attempt did not consume an id.
	resp, err = d.Dispatch(ctx, 1, "rewrite [Nat.add_comm]")
	require.NoError(t, err)
	assert.Equal(t, domain.BranchID(2), branchOf(t, resp))
}

func TestDispatcher_RejectionWithoutMessage(t *testing.T) {
	d, _, eng := newTestDispatcher(t)
	eng.Steps["s0"]["exact?"] = testutils.Step{Reject: true}

	resp, err := d.Dispatch(context.Background(), 0, "exact?")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultRejection}, resp.Errors)
}

func TestDispatcher_Replay(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	ctx := context.Background()

	first, err := d.Dispatch(ctx, 0, "intros")
	require.NoError(t, err)
	second, err := d.Dispatch(ctx, 0, "intros")
	require.NoError(t, err)

	assert.NotEqual(t, branchOf(t, first), branchOf(t, second))
	assert.Equal(t, first.Goals, second.Goals)
	assert.Equal(t, 3, store.Len())
}

func TestDispatcher_EngineFault(t *testing.T) {
	d, store, _ := newTestDispatcher(t)

	_, err := d.Dispatch(context.Background(), 0, "crash")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEngineFault)
	assert.ErrorIs(t, err, testutils.ErrFault)
	assert.Equal(t, 1, store.Len())
}

func TestDispatcher_Hooks(t *testing.T) {
	var events []domain.DispatchEvent
	hooks := domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			events = append(events, *e)
		},
	}
	d, _, _ := newTestDispatcher(t, WithLifecycleHooks(hooks))
	ctx := context.Background()

	for _, line := range []string{"0 intros", "9 intros", "x", "0 rewrite [", "1 rfl", "99999999999999999999 rfl"} {
		_, err := d.DispatchLine(ctx, line)
		require.NoError(t, err)
	}

	require.Len(t, events, 6)
	assert.Equal(t, domain.OutcomeBranched, events[0].Outcome)
	require.NotNil(t, events[0].NewBranch)
	assert.Equal(t, domain.BranchID(1), *events[0].NewBranch)
	assert.Equal(t, domain.OutcomeUnknownBranch, events[1].Outcome)
	assert.Equal(t, domain.OutcomeParseError, events[2].Outcome)
	assert.Equal(t, domain.OutcomeSyntaxError, events[3].Outcome)
	assert.Equal(t, domain.OutcomeSemanticError, events[4].Outcome)
	assert.Equal(t, domain.OutcomeUnknownBranch, events[5].Outcome)

	require.NotNil(t, events[1].Source)
	assert.Equal(t, domain.BranchID(9), *events[1].Source)
	assert.Nil(t, events[2].Source, "a malformed line resolves no branch")
	assert.Nil(t, events[5].Source)
	for _, e := range events {
		assert.Equal(t, domain.EventDispatch, e.Type)
		assert.False(t, e.Timestamp.IsZero())
	}
}
