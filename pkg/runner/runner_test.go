package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PatrickMassot/lean-gym/internal/runtime"
	"github.com/PatrickMassot/lean-gym/internal/testutils"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/memory"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddCommSession(t *testing.T) *runtime.Dispatcher {
	t.Helper()
	eng := testutils.NewAddCommEngine()
	ctx := context.Background()

	ec, err := eng.Initialize(ctx, "Nat.add_comm")
	require.NoError(t, err)
	initial, err := eng.InitialState(ctx, ec)
	require.NoError(t, err)
	return runtime.NewDispatcher(eng, ec, memory.NewBranchStore(initial))
}

func run(t *testing.T, input string, opts ...Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithInputHandler(NewJSONHandler(strings.NewReader(input), &out))}, opts...)
	err := NewRunner(opts...).Run(context.Background(), newAddCommSession(t))
	return out.String(), err
}

func TestRunner_AddCommScenario(t *testing.T) {
	// The last line has no terminator and must still be answered.
	input := "0 intros\n1 rfl\n1 rewrite [Nat.add_comm]\r\n2 rfl"

	out, err := run(t, input)
	require.NoError(t, err)

	want := strings.Join([]string{
		`{"branchId":0,"goals":["⊢ ∀ (n m : Nat), n + m = m + n"],"errors":[]}`,
		`{"branchId":1,"goals":["n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"],"errors":[]}`,
		`{"branchId":null,"goals":[],"errors":["The rfl tactic failed"]}`,
		`{"branchId":2,"goals":["n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"],"errors":[]}`,
		`{"branchId":null,"goals":[],"errors":[]}`,
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestRunner_RecoverableErrors(t *testing.T) {
	out, err := run(t, "7 intros\nabc rfl\nintros\n0 rewrite [\n0 intros\n")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["unknown branch id"]}`, lines[1])
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["parse error: invalid branch id \"abc\""]}`, lines[2])
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["parse error: expected \"<branchId> <command>\""]}`, lines[3])
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["unexpected end of input; expected term"]}`, lines[4])

	// Failures allocate nothing: the first success is still branch 1.
	assert.True(t, strings.HasPrefix(lines[5], `{"branchId":1,`), lines[5])
}

func TestRunner_AnswersBlankLines(t *testing.T) {
	out, err := run(t, "\n   \n0 intros\n\n")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5, "one response per line after the welcome")
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["parse error: expected \"<branchId> <command>\""]}`, lines[1])
	assert.Equal(t, `{"branchId":null,"goals":[],"errors":["parse error: missing branch id"]}`, lines[2])
	assert.True(t, strings.HasPrefix(lines[3], `{"branchId":1,`), lines[3])
	assert.Equal(t, lines[1], lines[4])
}

func TestRunner_EmptyInput(t *testing.T) {
	out, err := run(t, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.HasPrefix(out, `{"branchId":0,`) {
		t.Errorf("expected only the welcome response, got %q", out)
	}
}

func TestRunner_FaultStopsOutput(t *testing.T) {
	out, err := run(t, "0 crash\n0 intros\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEngineFault)
	assert.ErrorIs(t, err, testutils.ErrFault)
	assert.Equal(t, 1, strings.Count(out, "\n"), "nothing may follow the welcome after a fault")
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := NewRunner(WithInputHandler(NewJSONHandler(strings.NewReader("0 intros\n"), &out)))
	err := r.Run(ctx, newAddCommSession(t))
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingSink struct {
	mu      sync.Mutex
	entries []domain.TranscriptEntry
	fail    bool
}

func (s *recordingSink) Record(ctx context.Context, e domain.TranscriptEntry) error {
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func TestRunner_Transcript(t *testing.T) {
	sink := &recordingSink{}
	out, err := run(t, "0 intros\n\n5 rfl\n", WithTranscript(sink), WithSessionID("session-1"))
	require.NoError(t, err)

	require.Len(t, sink.entries, 4)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	for i, e := range sink.entries {
		assert.Equal(t, "session-1", e.Session)
		assert.Equal(t, uint64(i), e.Seq)
		assert.Equal(t, lines[i], e.Response)
		assert.False(t, e.Time.IsZero())
	}
	assert.Empty(t, sink.entries[0].Input)
	assert.Equal(t, "0 intros", sink.entries[1].Input)
	assert.Empty(t, sink.entries[2].Input)
	assert.Contains(t, sink.entries[2].Response, "parse error")
	assert.Equal(t, "5 rfl", sink.entries[3].Input)
}

func TestRunner_TranscriptFailureIsNotFatal(t *testing.T) {
	out, err := run(t, "0 intros\n", WithTranscript(&recordingSink{fail: true}))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNewRunner_SessionID(t *testing.T) {
	a, b := NewRunner(), NewRunner()
	assert.Len(t, a.SessionID, 36)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}
