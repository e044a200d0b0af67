// Package library holds the reference catalog: quick-pick statutory sections,
// drafting templates and procedural checklists.
package library

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// Section is a statutory provision offered as a quick pick.
type Section struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
	Details     string `yaml:"details"`
}

// Summary is the long text shown for a section.
func (s Section) Summary() string {
	if strings.TrimSpace(s.Details) != "" {
		return s.Details
	}
	return s.Description
}

// Template is a canned drafting request.
type Template struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Icon   string `yaml:"icon"`
	Prompt string `yaml:"prompt"`
}

type Checklist struct {
	Title string   `yaml:"title"`
	Steps []string `yaml:"steps"`
}

type Catalog struct {
	Sections   []Section   `yaml:"sections"`
	Templates  []Template  `yaml:"templates"`
	Checklists []Checklist `yaml:"checklists"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("library: embedded catalog: %v", err))
	}
	return cat
}

// Load reads a catalog override from path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadOrDefault returns the override at path, or the built-in catalog when
// path is empty.
func LoadOrDefault(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

func Parse(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	var problems []string
	seen := make(map[string]bool)
	for i, s := range c.Sections {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("section %d needs an id and a title", i+1))
		}
		if seen["s:"+s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate section id %q", s.ID))
		}
		seen["s:"+s.ID] = true
	}
	for i, t := range c.Templates {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Title) == "" {
			problems = append(problems, fmt.Sprintf("template %d needs an id and a title", i+1))
		}
		if strings.TrimSpace(t.Prompt) == "" {
			problems = append(problems, fmt.Sprintf("template %q has no prompt", t.ID))
		}
		if seen["t:"+t.ID] {
			problems = append(problems, fmt.Sprintf("duplicate template id %q", t.ID))
		}
		seen["t:"+t.ID] = true
	}
	for i, cl := range c.Checklists {
		if strings.TrimSpace(cl.Title) == "" {
			problems = append(problems, fmt.Sprintf("checklist %d needs a title", i+1))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// QuickSections returns up to n sections in catalog order.
func (c Catalog) QuickSections(n int) []Section {
	if n <= 0 || n > len(c.Sections) {
		n = len(c.Sections)
	}
	return append([]Section(nil), c.Sections[:n]...)
}
