package task

import (
	"time"
)

// FailureKind classifies why a task did not succeed.
type FailureKind int

const (
	FailureNone        FailureKind = iota
	FailureExit                    // command exited non-zero
	FailureSpawn                   // command could not be started
	FailureCapture                 // capture files could not be opened
	FailureRejected                // command refused by the guard
	FailureTimeout                 // per-task timeout elapsed
	FailureInterrupted             // run was cancelled while the task ran
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureExit:
		return "exit"
	case FailureSpawn:
		return "spawn"
	case FailureCapture:
		return "capture"
	case FailureRejected:
		return "rejected"
	case FailureTimeout:
		return "timeout"
	case FailureInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON reports.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Descriptor describes one check. Index is both the execution position and
// the terminal row the task owns while it runs.
type Descriptor struct {
	Index          int    `json:"index"`
	Category       string `json:"category,omitempty"`
	Title          string `json:"title"`
	Command        string `json:"command"`
	SuccessMessage string `json:"success_message"`
	FailureMessage string `json:"failure_message"`
	CaptureName    string `json:"capture_name"`
}

// Outcome is the result of one execution attempt.
type Outcome struct {
	TaskIndex int           `json:"task_index"`
	Succeeded bool          `json:"succeeded"`
	Duration  time.Duration `json:"duration"`
	ExitCode  int           `json:"exit_code"`
	Failure   FailureKind   `json:"failure"`
	Err       string        `json:"error,omitempty"`
}

// Mark returns the final renderer state for the outcome.
func (o Outcome) Mark() Mark {
	if o.Succeeded {
		return MarkOk
	}
	return MarkKo
}

// Failed builds an unsuccessful outcome that never reached a process exit.
func Failed(index int, kind FailureKind, err error) Outcome {
	o := Outcome{
		TaskIndex: index,
		ExitCode:  -1,
		Failure:   kind,
	}
	if err != nil {
		o.Err = err.Error()
	}
	return o
}

// Mark is the final state painted on a task row.
type Mark int

const (
	MarkOk Mark = iota
	MarkKo
)

func (m Mark) String() string {
	if m == MarkOk {
		return "ok"
	}
	return "ko"
}

// Policy decides what happens after a failing task.
type Policy int

const (
	RunAllThenReport Policy = iota
	StopOnFirstFailure
)

// PolicyFor maps the strict flag from configuration to a policy.
func PolicyFor(strict bool) Policy {
	if strict {
		return StopOnFirstFailure
	}
	return RunAllThenReport
}

func (p Policy) String() string {
	switch p {
	case RunAllThenReport:
		return "run-all"
	case StopOnFirstFailure:
		return "stop-on-first-failure"
	default:
		return "unknown"
	}
}

// RunResult aggregates the outcomes of one subject's run.
type RunResult struct {
	Subject      string        `json:"subject"`
	Outcomes     []Outcome     `json:"outcomes"`
	AbortedEarly bool          `json:"aborted_early"`
	Success      bool          `json:"success"`
	Duration     time.Duration `json:"duration"`
}

// Outcome returns the recorded outcome for a task index.
func (r *RunResult) Outcome(index int) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.TaskIndex == index {
			return o, true
		}
	}
	return Outcome{}, false
}

// Failures counts unsuccessful outcomes.
func (r *RunResult) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			n++
		}
	}
	return n
}

// finish computes Success from the recorded outcomes.
func (r *RunResult) finish() {
	r.Success = !r.AbortedEarly
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			r.Success = false
			return
		}
	}
}
