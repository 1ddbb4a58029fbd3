package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/ppiankov/tux/internal/task"
)

// Executor runs task commands through the system shell, writing their output
// into a capture store.
type Executor struct {
	Store   *Store
	Dir     string        // working directory; empty means the current one
	Timeout time.Duration // per task; 0 disables
	Guard   *Guard        // optional command screening
	Shell   string        // default "sh"
	Redact  bool          // mask secrets in captures once the task exits
}

// NewExecutor creates an executor writing captures into store.
func NewExecutor(store *Store) *Executor {
	return &Executor{Store: store}
}

// Execute runs one task to completion. It never returns an error: a command
// that cannot be screened, captured, started or that exits non-zero yields an
// unsuccessful outcome.
func (e *Executor) Execute(ctx context.Context, d task.Descriptor) task.Outcome {
	if e.Guard != nil {
		if err := e.Guard.Check(d.Command); err != nil {
			slog.Debug("command rejected", "task", d.Title, "error", err)
			return task.Failed(d.Index, task.FailureRejected, err)
		}
	}

	capture, err := e.Store.Open(d.CaptureName)
	if err != nil {
		slog.Debug("cannot open capture", "task", d.Title, "error", err)
		return task.Failed(d.Index, task.FailureCapture, err)
	}
	if e.Redact {
		// deferred first so it runs after the files are closed
		defer e.Store.Redact(d.CaptureName)
	}
	defer func() {
		if err := capture.Close(); err != nil {
			slog.Debug("close capture", "task", d.Title, "error", err)
		}
	}()

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	shell := e.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(runCtx, shell, "-c", d.Command)
	cmd.Dir = e.Dir
	cmd.Stdout = capture.Stdout
	cmd.Stderr = capture.Stderr
	setupProcessGroup(cmd)

	slog.Debug("spawning task", "task", d.Title, "command", d.Command, "dir", e.Dir)

	start := time.Now()
	runErr := cmd.Run()
	outcome := task.Outcome{
		TaskIndex: d.Index,
		Duration:  time.Since(start),
	}

	if runErr == nil {
		outcome.Succeeded = true
		return outcome
	}

	outcome.Err = runErr.Error()
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		outcome.Failure = task.FailureInterrupted
		outcome.ExitCode = -1
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.Failure = task.FailureTimeout
		outcome.ExitCode = -1
		outcome.Err = fmt.Sprintf("timed out after %s", e.Timeout)
	case errors.As(runErr, &exitErr):
		outcome.Failure = task.FailureExit
		outcome.ExitCode = exitErr.ExitCode()
	default:
		outcome.Failure = task.FailureSpawn
		outcome.ExitCode = -1
	}

	slog.Debug("task failed", "task", d.Title, "failure", outcome.Failure, "exit_code", outcome.ExitCode, "error", outcome.Err)
	return outcome
}
