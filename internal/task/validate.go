package task

import (
	"fmt"
	"strings"
)

// ValidateDescriptors checks that a task list can be rendered and captured:
// contiguous indices in slice order, required fields present, capture names
// and categories unique.
func ValidateDescriptors(tasks []Descriptor) error {
	captures := make(map[string]int, len(tasks))
	categories := make(map[string]int, len(tasks))

	for i, d := range tasks {
		if d.Index != i {
			return fmt.Errorf("task %q has index %d at position %d", d.Title, d.Index, i)
		}
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("task %d has empty title", i)
		}
		if strings.TrimSpace(d.Command) == "" {
			return fmt.Errorf("task %q has empty command", d.Title)
		}
		if strings.TrimSpace(d.CaptureName) == "" {
			return fmt.Errorf("task %q has empty capture name", d.Title)
		}
		if strings.ContainsAny(d.CaptureName, `/\`) || d.CaptureName == "." || d.CaptureName == ".." {
			return fmt.Errorf("task %q: capture name %q must be a plain file name", d.Title, d.CaptureName)
		}
		if prev, dup := captures[d.CaptureName]; dup {
			return fmt.Errorf("tasks %d and %d share capture name %q", prev, i, d.CaptureName)
		}
		captures[d.CaptureName] = i

		if d.Category != "" {
			if prev, dup := categories[d.Category]; dup {
				return fmt.Errorf("tasks %d and %d share category %q", prev, i, d.Category)
			}
			categories[d.Category] = i
		}
	}
	return nil
}
