package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/tux/internal/runner"
	"github.com/ppiankov/tux/internal/task"
)

// Task statuses in machine-readable reports.
const (
	StatusOK     = "ok"
	StatusKO     = "ko"
	StatusNotRun = "not-run"
)

// RunReport is the machine-readable form of a check run.
type RunReport struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Policy    string          `json:"policy"`
	Success   bool            `json:"success"`
	Subjects  []SubjectReport `json:"subjects"`
}

// SubjectReport holds the tasks of one subject in execution order.
type SubjectReport struct {
	Name         string       `json:"name"`
	Success      bool         `json:"success"`
	AbortedEarly bool         `json:"aborted_early"`
	Tasks        []TaskReport `json:"tasks"`
}

// TaskReport describes one descriptor and its outcome, if it ran.
type TaskReport struct {
	Index    int              `json:"index"`
	Category string           `json:"category,omitempty"`
	Title    string           `json:"title"`
	Command  string           `json:"command"`
	Status   string           `json:"status"`
	Message  string           `json:"message,omitempty"`
	ExitCode int              `json:"exit_code"`
	Failure  task.FailureKind `json:"failure"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration"`
	Stdout   string           `json:"stdout"`
	Stderr   string           `json:"stderr"`
}

// NewRunReport flattens a task report. Capture paths are resolved under
// outputDir the same way the executor lays them out.
func NewRunReport(report *task.Report, policy task.Policy, startedAt time.Time, outputDir string) *RunReport {
	rr := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		Duration:  report.Duration,
		Policy:    policy.String(),
		Success:   report.Success(),
	}

	for _, id := range report.Order {
		res := report.Results[id]
		sr := SubjectReport{Name: id}
		if res != nil {
			sr.Success = res.Success
			sr.AbortedEarly = res.AbortedEarly
		}

		store := runner.NewStore(filepath.Join(outputDir, id))
		for _, d := range report.Subjects[id].Tasks {
			tr := TaskReport{
				Index:    d.Index,
				Category: d.Category,
				Title:    d.Title,
				Command:  d.Command,
				Status:   StatusNotRun,
				ExitCode: -1,
			}
			tr.Stdout, tr.Stderr = store.Paths(d.CaptureName)

			if res != nil {
				if o, ok := res.Outcome(d.Index); ok {
					tr.ExitCode = o.ExitCode
					tr.Failure = o.Failure
					tr.Error = o.Err
					tr.Duration = o.Duration
					if o.Succeeded {
						tr.Status, tr.Message = StatusOK, d.SuccessMessage
					} else {
						tr.Status, tr.Message = StatusKO, d.FailureMessage
					}
				}
			}
			sr.Tasks = append(sr.Tasks, tr)
		}
		rr.Subjects = append(rr.Subjects, sr)
	}

	return rr
}

// WriteJSONReport writes the run report as JSON to the given path.
func WriteJSONReport(report *RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
