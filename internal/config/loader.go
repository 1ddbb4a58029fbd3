package config

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tux/internal/catalog"
)

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir is empty")
	}

	names := make(map[string]struct{}, len(c.Subjects))
	for i, s := range c.Subjects {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("subject %d has empty name", i)
		}
		if !isPathElem(s.Name) {
			return fmt.Errorf("subject %q must not contain path separators or be . or ..", s.Name)
		}
		key := strings.ToLower(s.Name)
		if _, dup := names[key]; dup {
			return fmt.Errorf("duplicate subject %q", s.Name)
		}
		names[key] = struct{}{}
		if len(s.Tasks) == 0 {
			return fmt.Errorf("subject %q has no tasks", s.Name)
		}
		for j, t := range s.Tasks {
			if strings.TrimSpace(t.Command) == "" {
				return fmt.Errorf("subject %q task %d has empty command", s.Name, j)
			}
			if t.Capture != "" && !isPathElem(t.Capture) {
				return fmt.Errorf("subject %q task %d capture %q must be a plain file name", s.Name, j, t.Capture)
			}
		}
	}

	if len(c.Languages) == 0 && len(c.Subjects) == 0 {
		return fmt.Errorf("no languages or subjects configured")
	}
	return nil
}

// isPathElem reports whether name is usable as a single directory entry
// under the output dir.
func isPathElem(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// SubjectNames lists what a check runs: the configured languages, then
// custom subjects not already named there.
func (c *Config) SubjectNames() []string {
	out := make([]string, 0, len(c.Languages)+len(c.Subjects))
	seen := make(map[string]bool, cap(out))
	for _, l := range c.Languages {
		seen[strings.ToLower(l)] = true
		out = append(out, l)
	}
	for _, s := range c.Subjects {
		if !seen[strings.ToLower(s.Name)] {
			out = append(out, s.Name)
		}
	}
	return out
}

// Catalog returns the built-in tables extended with the custom subjects.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	cat := catalog.New()
	for _, s := range c.Subjects {
		items := make([]catalog.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			items = append(items, catalog.Task{
				Category: t.Category,
				Title:    t.Title,
				Command:  t.Command,
				Success:  t.Success,
				Failure:  t.Failure,
				Capture:  t.Capture,
			})
		}
		if err := cat.Add(s.Name, items); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
