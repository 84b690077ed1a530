package graph

import (
	"fmt"
	"strings"

	"github.com/PatrickMassot/lean-gym/pkg/adapters/rewrite"
)

// GenerateMermaid produces a Mermaid flowchart of the goals reachable from the
// initial goals of task through the rules of cat. Edges carry the tactic.
// It applies semantic styling:
// - Initial goal: ([Stadium])
// - Reached goal: [Rectangle]
// - Closed goal: ((Circle)), a single shared node
func GenerateMermaid(cat *rewrite.Catalog, task rewrite.TaskDef) string {
	ids := make(map[string]string)
	var order []string
	idOf := func(goal string) string {
		if id, ok := ids[goal]; ok {
			return id
		}
		id := fmt.Sprintf("g%d", len(order))
		ids[goal] = id
		order = append(order, goal)
		return id
	}

	initial := make(map[string]bool)
	for _, g := range task.InitialGoals() {
		initial[g] = true
		idOf(g)
	}

	var edges []string
	closed := false
	// order grows while it is walked: every reached goal is expanded once.
	for i := 0; i < len(order); i++ {
		goal := order[i]
		from := ids[goal]
		for _, r := range cat.Rules {
			if r.From != "" && r.From != goal {
				continue
			}
			label := sanitizeLabel(r.Tactic)
			if len(r.To) == 0 {
				closed = true
				edges = append(edges, fmt.Sprintf("    %s -- \"%s\" --> qed\n", from, label))
				continue
			}
			for _, next := range r.To {
				edges = append(edges, fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, label, idOf(next)))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, goal := range order {
		opener, closer := "[", "]"
		if initial[goal] {
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[goal], opener, sanitizeLabel(goal), closer)
	}
	if closed {
		sb.WriteString("    qed((\"∎\"))\n")
	}
	for _, e := range edges {
		sb.WriteString(e)
	}
	return sb.String()
}

func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
