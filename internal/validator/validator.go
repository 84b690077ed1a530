package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PatrickMassot/lean-gym/pkg/adapters/rewrite"
)

// Problem is one finding about a catalog file.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// ValidateSearchPath checks every catalog on searchPath: files that fail to
// load, malformed or shadowed tasks and rules no task can ever reach.
func ValidateSearchPath(searchPath string) ([]Problem, error) {
	var problems []Problem
	declared := make(map[string]string)

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		files, err := rewrite.CatalogFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, path := range files {
			cat, err := rewrite.LoadCatalog(path)
			if err != nil {
				problems = append(problems, Problem{Path: path, Message: err.Error()})
				continue
			}
			problems = append(problems, checkTasks(cat, declared)...)
			problems = append(problems, checkRules(cat)...)
		}
	}
	return problems, nil
}

func checkTasks(cat *rewrite.Catalog, declared map[string]string) []Problem {
	var problems []Problem
	report := func(format string, args ...any) {
		problems = append(problems, Problem{Path: cat.Path, Message: fmt.Sprintf(format, args...)})
	}

	for i, t := range cat.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			report("task %d has no name", i)
			continue
		}
		if first, ok := declared[t.Name]; ok {
			report("task %q is shadowed by %s", t.Name, first)
			continue
		}
		declared[t.Name] = cat.Path

		goals := t.InitialGoals()
		if len(goals) == 0 {
			report("task %q has no goals", t.Name)
		}
		for _, g := range goals {
			if strings.TrimSpace(g) == "" {
				report("task %q has an empty goal", t.Name)
				break
			}
		}
	}
	return problems
}

// checkRules crawls the goals reachable from the catalog's tasks and reports
// rules whose source goal is never reached.
func checkRules(cat *rewrite.Catalog) []Problem {
	visited := make(map[string]bool)
	var queue []string
	for _, t := range cat.Tasks {
		queue = append(queue, t.InitialGoals()...)
	}

	for len(queue) > 0 {
		goal := queue[0]
		queue = queue[1:]

		if visited[goal] {
			continue
		}
		visited[goal] = true

		for _, r := range cat.Rules {
			if r.From != "" && r.From != goal {
				continue
			}
			for _, next := range r.To {
				if !visited[next] {
					queue = append(queue, next)
				}
			}
		}
	}

	var problems []Problem
	for i, r := range cat.Rules {
		if r.From != "" && !visited[r.From] {
			problems = append(problems, Problem{
				Path:    cat.Path,
				Message: fmt.Sprintf("rule %d (%s) is unreachable", i, r.Tactic),
			})
		}
	}
	return problems
}
