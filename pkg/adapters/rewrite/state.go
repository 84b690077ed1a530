package rewrite

import (
	"github.com/Workiva/go-datastructures/list"
)

// goal is the engine's goal reference.
type goal struct {
	text string
}

// snapshot is an immutable proof state. Goals live in a persistent list, so a
// derived snapshot shares every goal it did not touch with its parent.
type snapshot struct {
	goals list.PersistentList
}

func newSnapshot(texts []string) *snapshot {
	return &snapshot{goals: push(list.Empty, texts)}
}

// push puts texts in front of l, keeping their order.
func push(l list.PersistentList, texts []string) list.PersistentList {
	for i := len(texts) - 1; i >= 0; i-- {
		l = l.Add(goal{text: texts[i]})
	}
	return l
}

// main returns the first goal and the remaining list.
func (s *snapshot) main() (goal, list.PersistentList, bool) {
	head, ok := s.goals.Head()
	if !ok {
		return goal{}, nil, false
	}
	tail, _ := s.goals.Tail()
	return head.(goal), tail, true
}

func (s *snapshot) all() []goal {
	out := make([]goal, 0, s.goals.Length())
	for l := s.goals; !l.IsEmpty(); {
		head, _ := l.Head()
		out = append(out, head.(goal))
		l, _ = l.Tail()
	}
	return out
}

func (s *snapshot) texts() []string {
	goals := s.all()
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.text
	}
	return out
}
