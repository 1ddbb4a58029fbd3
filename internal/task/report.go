package task

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Subject is one target of a check run, typically a language within a project.
type Subject struct {
	ID    string
	Tasks []Descriptor
}

// Columns is the named mapping from task category to report column.
// Cells are looked up by category, never by task position.
type Columns struct {
	names []string
	index map[string]int
}

// NewColumns builds a column mapping. Names must be non-empty and unique.
func NewColumns(names ...string) (Columns, error) {
	if len(names) == 0 {
		return Columns{}, fmt.Errorf("no report columns")
	}
	idx := make(map[string]int, len(names))
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return Columns{}, fmt.Errorf("report column %d has empty name", i)
		}
		if _, dup := idx[n]; dup {
			return Columns{}, fmt.Errorf("duplicate report column %q", n)
		}
		idx[n] = i
	}
	return Columns{names: append([]string(nil), names...), index: idx}, nil
}

// Names returns the column names in display order.
func (c Columns) Names() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether name is a known column.
func (c Columns) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Validate checks that every task of the subject feeds exactly one known column.
func (c Columns) Validate(s Subject) error {
	seen := make(map[string]string, len(s.Tasks))
	for _, d := range s.Tasks {
		if d.Category == "" {
			return fmt.Errorf("subject %s: task %q has no category", s.ID, d.Title)
		}
		if !c.Has(d.Category) {
			return fmt.Errorf("subject %s: task %q has unknown category %q", s.ID, d.Title, d.Category)
		}
		if prev, dup := seen[d.Category]; dup {
			return fmt.Errorf("subject %s: tasks %q and %q both report %q", s.ID, prev, d.Title, d.Category)
		}
		seen[d.Category] = d.Title
	}
	return nil
}

// CellState is the value shown for one subject and one column.
type CellState int

const (
	CellNotRun CellState = iota // no task for the column, or never attempted
	CellPassed
	CellFailed
)

func (s CellState) String() string {
	switch s {
	case CellPassed:
		return "ok"
	case CellFailed:
		return "ko"
	default:
		return "-"
	}
}

// Report holds the run results of all subjects.
type Report struct {
	Columns  Columns
	Order    []string
	Subjects map[string]Subject
	Results  map[string]*RunResult
	Duration time.Duration
}

// Cell returns the state of a subject's task in the given column.
func (r *Report) Cell(subject, column string) CellState {
	s, ok := r.Subjects[subject]
	if !ok {
		return CellNotRun
	}
	res := r.Results[subject]
	if res == nil {
		return CellNotRun
	}
	for _, d := range s.Tasks {
		if d.Category != column {
			continue
		}
		o, ok := res.Outcome(d.Index)
		if !ok {
			return CellNotRun
		}
		if o.Succeeded {
			return CellPassed
		}
		return CellFailed
	}
	return CellNotRun
}

// Success reports whether every subject succeeded.
func (r *Report) Success() bool {
	if len(r.Order) == 0 {
		return true
	}
	for _, id := range r.Order {
		res := r.Results[id]
		if res == nil || !res.Success {
			return false
		}
	}
	return true
}

// Failed returns the subjects that did not succeed, in run order.
func (r *Report) Failed() []string {
	var failed []string
	for _, id := range r.Order {
		res := r.Results[id]
		if res == nil || !res.Success {
			failed = append(failed, id)
		}
	}
	return failed
}

// Builder runs the controller once per subject and assembles a Report.
type Builder struct {
	Controller *Controller
	Columns    Columns

	// BeforeSubject is called before each subject starts, e.g. to reset the screen.
	BeforeSubject func(s Subject)
}

// Build validates all subjects first, then runs them one after another.
func (b *Builder) Build(ctx context.Context, subjects []Subject, policy Policy) (*Report, error) {
	seen := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("duplicate subject %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if err := b.Columns.Validate(s); err != nil {
			return nil, err
		}
		if err := ValidateDescriptors(s.Tasks); err != nil {
			return nil, fmt.Errorf("subject %s: %w", s.ID, err)
		}
	}

	start := time.Now()
	report := &Report{
		Columns:  b.Columns,
		Order:    make([]string, 0, len(subjects)),
		Subjects: make(map[string]Subject, len(subjects)),
		Results:  make(map[string]*RunResult, len(subjects)),
	}

	for _, s := range subjects {
		if err := ctx.Err(); err != nil {
			break
		}
		if b.BeforeSubject != nil {
			b.BeforeSubject(s)
		}
		res, err := b.Controller.Run(ctx, s.ID, s.Tasks, policy)
		report.Order = append(report.Order, s.ID)
		report.Subjects[s.ID] = s
		report.Results[s.ID] = res
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	// subjects skipped by an interrupt still count against the exit code
	for _, s := range subjects {
		if _, ran := report.Results[s.ID]; !ran {
			report.Order = append(report.Order, s.ID)
			report.Subjects[s.ID] = s
			report.Results[s.ID] = &RunResult{Subject: s.ID, AbortedEarly: true}
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}
