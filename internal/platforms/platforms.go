// Package platforms holds the per-platform tone table used to build prompts
// and to label generated content.
package platforms

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
)

//go:embed platforms.yaml
var defaultTable []byte

// Rule describes how copy for one platform should read.
type Rule struct {
	ID           models.PlatformID `yaml:"id" json:"id"`
	Name         string            `yaml:"name" json:"name"`
	Icon         string            `yaml:"icon" json:"icon"`
	TitleLimit   int               `yaml:"titleLimit" json:"titleLimit"`
	TagCount     string            `yaml:"tagCount" json:"tagCount"`
	Tone         string            `yaml:"tone" json:"tone"`
	PostingTimes []string          `yaml:"postingTimes" json:"postingTimes"`
}

// Table maps platform ids to their rules, keeping file order for listing.
type Table struct {
	order []models.PlatformID
	rules map[models.PlatformID]Rule
}

type tableFile struct {
	Platforms []Rule `yaml:"platforms"`
}

// Default returns the embedded table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("platforms: embedded table: %v", err))
	}
	return t
}

// Load reads a table from path, or returns the embedded table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML table. Every platform in models.AllPlatforms must be
// present exactly once, and no others.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode platform table: %w", err)
	}

	t := &Table{rules: make(map[models.PlatformID]Rule, len(f.Platforms))}
	for _, r := range f.Platforms {
		if !r.ID.Valid() {
			return nil, fmt.Errorf("unknown platform id %q", r.ID)
		}
		if _, dup := t.rules[r.ID]; dup {
			return nil, fmt.Errorf("duplicate platform id %q", r.ID)
		}
		if r.Name == "" {
			r.Name = string(r.ID)
		}
		t.rules[r.ID] = r
		t.order = append(t.order, r.ID)
	}
	for _, id := range models.AllPlatforms {
		if _, ok := t.rules[id]; !ok {
			return nil, fmt.Errorf("platform %q missing from table", id)
		}
	}
	return t, nil
}

// Rule looks up the rule for id.
func (t *Table) Rule(id models.PlatformID) (Rule, bool) {
	r, ok := t.rules[id]
	return r, ok
}

// Name returns the display name for id, or the id itself.
func (t *Table) Name(id models.PlatformID) string {
	if r, ok := t.rules[id]; ok {
		return r.Name
	}
	return string(id)
}

// All returns the rules in table order.
func (t *Table) All() []Rule {
	out := make([]Rule, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rules[id])
	}
	return out
}
