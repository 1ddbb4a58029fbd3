package reporter

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ppiankov/tux/internal/task"
)

// ErrRenderSync reports that a spinner goroutine did not stop in time. The
// terminal state is unknown afterwards, so the run must not continue.
var ErrRenderSync = errors.New("progress renderer out of sync")

var spinnerFrames = []string{". ", "..", ".:", "::"}

const (
	defaultInterval    = 500 * time.Millisecond
	defaultJoinTimeout = 5 * time.Second
)

// Progress paints one row per task: a spinner while the task runs and a
// final ok/ko status once it stops.
type Progress struct {
	Term        *Terminal
	Style       Style
	Interval    time.Duration
	JoinTimeout time.Duration

	pal palette
}

// NewProgress creates a renderer drawing on term.
func NewProgress(term *Terminal, style Style) *Progress {
	return &Progress{
		Term:        term,
		Style:       style,
		Interval:    defaultInterval,
		JoinTimeout: defaultJoinTimeout,
		pal:         newPalette(term.Renderer()),
	}
}

// Begin starts a new block of rows under a subject header.
func (p *Progress) Begin(subject string) {
	p.Term.MoveBelow()
	p.Term.Line("")
	p.Term.Line(p.pal.header.Render(subject))
}

// Finish moves the cursor below the last painted block.
func (p *Progress) Finish() {
	p.Term.MoveBelow()
}

// Start paints the task row and, on interactive terminals, launches the
// spinner goroutine.
func (p *Progress) Start(d task.Descriptor) task.Handle {
	s := &spinner{
		p:    p,
		d:    d,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if !p.Term.Interactive() {
		close(s.done)
		return s
	}

	p.Term.HideCursor()
	switch p.Style {
	case StyleSystemd:
		p.Term.PaintRow(d.Index, p.blankStatus()+" "+p.pal.text.Render(d.Title), "")
	default:
		p.Term.PaintRow(d.Index, p.pal.ok.Render("*")+" "+p.pal.text.Render(d.Title), "")
	}
	go s.run()
	return s
}

func (p *Progress) blankStatus() string {
	return fmt.Sprintf("%*s", statusWidth, "")
}

// statusColumn is where the six-column status field starts.
func (p *Progress) statusColumn() int {
	if p.Style == StyleSystemd {
		return 0
	}
	col := p.Term.Width() - statusWidth
	if col < 0 {
		col = 0
	}
	return col
}

func (p *Progress) paintFinal(d task.Descriptor, mark task.Mark) {
	msg, status, marker := d.SuccessMessage, p.pal.ok, "ok"
	if mark == task.MarkKo {
		msg, status, marker = d.FailureMessage, p.pal.ko, "!!"
	}
	if msg == "" {
		msg = d.Title
	}

	switch p.Style {
	case StyleSystemd:
		word := "OK"
		if mark == task.MarkKo {
			word = "KO"
		}
		p.Term.PaintRow(d.Index, p.pal.bracketed(word, status)+" "+p.pal.text.Render(msg), "")
	default:
		p.Term.PaintRow(d.Index, status.Render("*")+" "+p.pal.text.Render(msg), p.pal.bracketed(marker, status))
	}
	if p.Term.Interactive() {
		p.Term.ShowCursor()
	}
}

// spinner is the handle of one in-flight task.
type spinner struct {
	p       *Progress
	d       task.Descriptor
	stopped atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	err     error
}

func (s *spinner) run() {
	defer close(s.done)

	interval := s.p.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	col := s.p.statusColumn()
	for frame := 0; !s.stopped.Load(); frame++ {
		f := spinnerFrames[frame%len(spinnerFrames)]
		s.p.Term.PaintAt(s.d.Index, col, s.p.pal.bracketed(f, s.p.pal.spin))

		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop raises the stop flag, waits for the spinner goroutine to exit and
// paints the final status. Only the first call has an effect.
func (s *spinner) Stop(final task.Mark) error {
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.stop)

		timeout := s.p.JoinTimeout
		if timeout <= 0 {
			timeout = defaultJoinTimeout
		}
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-s.done:
		case <-timer.C:
			s.err = fmt.Errorf("%w: spinner for %q still running after %s", ErrRenderSync, s.d.Title, timeout)
			return
		}
		s.p.paintFinal(s.d, final)
	})
	return s.err
}
