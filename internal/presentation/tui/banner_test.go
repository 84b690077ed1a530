package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner_PlainOutsideTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3", "Nat.add_comm")

	out := buf.String()
	assert.Contains(t, out, "v1.2.3  Nat.add_comm")
	assert.Contains(t, out, "<branchId> <command>")
	assert.False(t, strings.Contains(out, "\x1b["), "no escape sequences in a buffer")
}
