package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// TaskDef declares a task: a name and its initial goals.
// Goal is shorthand for a single-goal task.
type TaskDef struct {
	Name  string   `mapstructure:"name"`
	Goal  string   `mapstructure:"goal"`
	Goals []string `mapstructure:"goals"`
}

// InitialGoals returns the declared goals, in order.
func (t TaskDef) InitialGoals() []string {
	goals := make([]string, 0, len(t.Goals)+1)
	if t.Goal != "" {
		goals = append(goals, t.Goal)
	}
	return append(goals, t.Goals...)
}

// Rule rewrites the main goal. An empty From matches any goal; an empty To closes it.
type Rule struct {
	Tactic string   `mapstructure:"tactic"`
	From   string   `mapstructure:"from"`
	To     []string `mapstructure:"to"`
}

// Catalog is one catalog file: tasks plus the rules that can be used on them.
type Catalog struct {
	Path  string    `mapstructure:"-"`
	Tasks []TaskDef `mapstructure:"tasks"`
	Rules []Rule    `mapstructure:"rules"`
}

// Task finds a task by name.
func (c *Catalog) Task(name string) (TaskDef, bool) {
	for _, t := range c.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskDef{}, false
}

var catalogExtensions = []string{".yaml", ".yml", ".json"}

// LoadCatalog reads a catalog file (YAML or JSON).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	var cat Catalog
	if err := mapstructure.Decode(raw, &cat); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	cat.Path = path

	for i, r := range cat.Rules {
		if normalize(r.Tactic) == "" {
			return nil, fmt.Errorf("catalog %s: rule %d has no tactic", path, i)
		}
		cat.Rules[i].Tactic = normalize(r.Tactic)
	}
	return &cat, nil
}

// CatalogFiles lists catalog files directly inside dir, sorted by name.
// A missing directory yields no files.
func CatalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(catalogExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
