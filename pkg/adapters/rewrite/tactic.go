package rewrite

import (
	"fmt"
	"strings"
)

// Built-in tactics, available in every task.
const (
	tacticSkip   = "skip"
	tacticSorry  = "sorry"
	tacticAdmit  = "admit"
	tacticSwap   = "swap"
	tacticRotate = "rotate"
	tacticDone   = "done"
)

var builtins = map[string]bool{
	tacticSkip:   true,
	tacticSorry:  true,
	tacticAdmit:  true,
	tacticSwap:   true,
	tacticRotate: true,
	tacticDone:   true,
}

var closers = map[rune]rune{
	')': '(',
	']': '[',
	'}': '{',
	'⟩': '⟨',
}

var openers = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'⟨': '⟩',
}

// tactic is the parsed form of command text.
type tactic struct {
	head string
	text string
}

// normalize collapses whitespace runs so "rewrite  [h]" and "rewrite [h]" are the same tactic.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// parseTactic checks text against the known tactic heads.
// The returned string is a syntax error message; empty means text was accepted.
func parseTactic(text string, known map[string]bool) (tactic, string) {
	norm := normalize(text)
	if norm == "" {
		return tactic{}, "unexpected end of input; expected tactic"
	}
	if msg := checkBrackets(norm); msg != "" {
		return tactic{}, msg
	}

	head, _, _ := strings.Cut(norm, " ")
	if !builtins[head] && !known[head] {
		return tactic{}, fmt.Sprintf("unknown tactic '%s'", head)
	}
	return tactic{head: head, text: norm}, ""
}

func checkBrackets(text string) string {
	var stack []rune
	for _, r := range text {
		if _, ok := openers[r]; ok {
			stack = append(stack, r)
			continue
		}
		open, ok := closers[r]
		if !ok {
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1] != open {
			return fmt.Sprintf("unexpected token '%c'", r)
		}
		stack = stack[:len(stack)-1]
	}
	if len(stack) > 0 {
		return fmt.Sprintf("unexpected end of input; expected '%c'", openers[stack[len(stack)-1]])
	}
	return ""
}
