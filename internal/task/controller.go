package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Executor runs one task to completion. Implementations never panic on
// command errors; every problem is reported through the outcome.
type Executor interface {
	Execute(ctx context.Context, d Descriptor) Outcome
}

// Renderer shows live progress for the task currently in flight.
type Renderer interface {
	Start(d Descriptor) Handle
}

// Handle controls the progress display of one started task.
// Stop must not return before the display has stopped repainting.
type Handle interface {
	Stop(final Mark) error
}

// ControllerConfig holds the collaborators of a Controller.
type ControllerConfig struct {
	Executor  Executor
	Renderer  Renderer
	OnOutcome func(subject string, d Descriptor, o Outcome) // called after each task
}

// Controller drives a task list strictly in order, one task in flight at a time.
type Controller struct {
	cfg ControllerConfig
}

// NewController creates a controller. A nil renderer disables progress display.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Renderer == nil {
		cfg.Renderer = nopRenderer{}
	}
	return &Controller{cfg: cfg}
}

// Run executes tasks in order under the given policy.
// The returned error is reserved for engine defects (invalid descriptors,
// a renderer that failed to stop); failing commands only show up in the result.
func (c *Controller) Run(ctx context.Context, subject string, tasks []Descriptor, policy Policy) (*RunResult, error) {
	if err := ValidateDescriptors(tasks); err != nil {
		return nil, fmt.Errorf("subject %s: %w", subject, err)
	}

	start := time.Now()
	result := &RunResult{
		Subject:  subject,
		Outcomes: make([]Outcome, 0, len(tasks)),
	}
	defer func() {
		result.Duration = time.Since(start)
	}()

	for _, d := range tasks {
		if err := ctx.Err(); err != nil {
			slog.Warn("run interrupted", "subject", subject, "next_task", d.Title)
			result.AbortedEarly = true
			break
		}

		handle := c.cfg.Renderer.Start(d)
		outcome := c.cfg.Executor.Execute(ctx, d)
		outcome.TaskIndex = d.Index

		if err := handle.Stop(outcome.Mark()); err != nil {
			result.Outcomes = append(result.Outcomes, outcome)
			result.AbortedEarly = true
			result.finish()
			return result, fmt.Errorf("subject %s, task %q: %w", subject, d.Title, err)
		}

		result.Outcomes = append(result.Outcomes, outcome)
		slog.Debug("task finished",
			"subject", subject,
			"task", d.Title,
			"succeeded", outcome.Succeeded,
			"failure", outcome.Failure,
			"duration", outcome.Duration,
		)
		if c.cfg.OnOutcome != nil {
			c.cfg.OnOutcome(subject, d, outcome)
		}

		if !outcome.Succeeded && policy == StopOnFirstFailure {
			result.AbortedEarly = true
			break
		}
	}

	result.finish()
	return result, nil
}

type nopRenderer struct{}

func (nopRenderer) Start(Descriptor) Handle { return nopHandle{} }

type nopHandle struct{}

func (nopHandle) Stop(Mark) error { return nil }
