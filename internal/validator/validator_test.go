package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PatrickMassot/lean-gym/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(problems []Problem) []string {
	var out []string
	for _, p := range problems {
		out = append(out, p.Message)
	}
	return out
}

func TestValidateSearchPath_Clean(t *testing.T) {
	problems, err := ValidateSearchPath("../../testdata/lean")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidateSearchPath_Problems(t *testing.T) {
	dir := testutils.WriteCatalog(t, "a.yaml", `
tasks:
  - name: t
    goal: "⊢ A"
  - goal: "⊢ B"
  - name: empty
rules:
  - tactic: step
    from: "⊢ A"
    to: ["⊢ C"]
  - tactic: close
    from: "⊢ C"
  - tactic: orphan
    from: "⊢ Z"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("tasks:\n  - name: t\n    goal: \"⊢ A\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("rules:\n  - from: x\n"), 0o644))

	problems, err := ValidateSearchPath(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"task 1 has no name",
		`task "empty" has no goals`,
		"rule 2 (orphan) is unreachable",
		`task "t" is shadowed by ` + filepath.Join(dir, "a.yaml"),
		"catalog " + filepath.Join(dir, "c.yaml") + ": rule 0 has no tactic",
	}, messages(problems))
	assert.True(t, strings.HasPrefix(problems[0].String(), filepath.Join(dir, "a.yaml")+": "))
}

func TestValidateSearchPath_FirstDirectoryWins(t *testing.T) {
	first := testutils.WriteCatalog(t, "x.yaml", "tasks:\n  - name: t\n    goal: \"⊢ A\"\n")
	second := testutils.WriteCatalog(t, "x.yaml", "tasks:\n  - name: t\n    goal: \"⊢ B\"\n")

	problems, err := ValidateSearchPath(first + string(os.PathListSeparator) + second)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, filepath.Join(second, "x.yaml"), problems[0].Path)
}
