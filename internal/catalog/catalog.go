// Package catalog maps subjects (languages or user-defined groups) to the
// ordered task descriptors that check them.
package catalog

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ppiankov/tux/internal/task"
)

// Task is a user-authored check. Empty fields are filled from the built-in
// template of its category when there is one.
type Task struct {
	Category string
	Title    string
	Command  string
	Success  string
	Failure  string
	Capture  string
}

type entry struct {
	name  string
	tasks []task.Descriptor
}

// Catalog resolves subject names to descriptors.
type Catalog struct {
	entries map[string]*entry // keyed by lower-case name and alias
	order   []string
	extra   []string // custom categories beyond the built-in ones
}

// New returns a catalog holding the built-in language tables.
func New() *Catalog {
	c := &Catalog{entries: make(map[string]*entry)}
	for _, b := range builtins {
		items := make([]Task, 0, len(Categories))
		for _, cat := range Categories {
			items = append(items, Task{Category: cat, Command: b.commands[cat]})
		}
		tasks, err := Descriptors(items)
		if err != nil {
			panic(fmt.Sprintf("built-in table %s: %v", b.name, err))
		}
		c.put(b.name, tasks, b.aliases...)
	}
	return c
}

func (c *Catalog) put(name string, tasks []task.Descriptor, aliases ...string) {
	key := strings.ToLower(name)
	e, exists := c.entries[key]
	if exists {
		e.tasks = tasks
	} else {
		e = &entry{name: name, tasks: tasks}
		c.order = append(c.order, name)
	}
	c.entries[key] = e
	for _, a := range aliases {
		c.entries[strings.ToLower(a)] = e
	}
}

// Add registers a custom subject. A custom subject with the name of a
// built-in one replaces its table.
func (c *Catalog) Add(name string, items []Task) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("subject name is empty")
	}
	if len(items) == 0 {
		return fmt.Errorf("subject %s has no tasks", name)
	}
	tasks, err := Descriptors(items)
	if err != nil {
		return fmt.Errorf("subject %s: %w", name, err)
	}
	for _, d := range tasks {
		if !slices.Contains(Categories, d.Category) && !slices.Contains(c.extra, d.Category) {
			c.extra = append(c.extra, d.Category)
		}
	}
	c.put(name, tasks)
	return nil
}

// Names lists the known subjects in registration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Subject resolves a name or alias, case-insensitively.
func (c *Catalog) Subject(name string) (task.Subject, error) {
	e, ok := c.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return task.Subject{}, fmt.Errorf("unknown subject %q (known: %s)", name, strings.Join(c.order, ", "))
	}
	return task.Subject{ID: e.name, Tasks: slices.Clone(e.tasks)}, nil
}

// Subjects resolves names in order, rejecting duplicates after alias
// resolution.
func (c *Catalog) Subjects(names []string) ([]task.Subject, error) {
	out := make([]task.Subject, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		s, err := c.Subject(n)
		if err != nil {
			return nil, err
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("subject %s listed twice", s.ID)
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out, nil
}

// Columns returns the report columns: the built-in categories followed by
// any custom ones.
func (c *Catalog) Columns() task.Columns {
	cols, err := task.NewColumns(append(slices.Clone(Categories), c.extra...)...)
	if err != nil {
		// Add keeps extra disjoint from Categories
		panic(err)
	}
	return cols
}

// Descriptors turns items into indexed descriptors, filling defaults from the
// category templates. Custom tasks without a category are filed under the
// base name of their capture file.
func Descriptors(items []Task) ([]task.Descriptor, error) {
	tasks := make([]task.Descriptor, 0, len(items))
	for i, s := range items {
		tpl := templates[s.Category]
		d := task.Descriptor{
			Index:          i,
			Category:       s.Category,
			Title:          firstNonEmpty(s.Title, tpl.title),
			Command:        strings.TrimSpace(s.Command),
			SuccessMessage: firstNonEmpty(s.Success, tpl.success),
			FailureMessage: firstNonEmpty(s.Failure, tpl.failure),
			CaptureName:    firstNonEmpty(s.Capture, tpl.capture),
		}
		if d.CaptureName == "" && d.Category != "" {
			d.CaptureName = d.Category + ".txt"
		}
		if d.Category == "" && d.CaptureName != "" {
			d.Category = strings.TrimSuffix(d.CaptureName, filepath.Ext(d.CaptureName))
		}
		if d.Title == "" {
			d.Title = d.Command
		}
		if d.Category == "" {
			return nil, fmt.Errorf("task %d (%s) needs a category or a capture name", i, d.Title)
		}
		tasks = append(tasks, d)
	}
	if err := task.ValidateDescriptors(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
