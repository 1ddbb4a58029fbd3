package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

// Terminal is the single writer for progress output. Rows are addressed
// relative to the current block: the lines painted since the last MoveBelow.
// Cursor movement is relative, so a block survives scrolling as long as it
// fits on screen. Log lines written through LogWriter join the block below
// its rows, so they never shift a row that is still being repainted.
type Terminal struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	width       int
	rows        []int // line of each row within the current block
	height      int   // lines in the current block; the cursor sits below them
	renderer    *lipgloss.Renderer
}

// NewTerminal wraps w. Non-interactive terminals receive plain lines without
// cursor addressing.
func NewTerminal(w io.Writer, interactive bool, width int) *Terminal {
	if width <= 0 {
		width = defaultWidth
	}
	return &Terminal{
		w:           w,
		interactive: interactive,
		width:       width,
		renderer:    lipgloss.NewRenderer(w),
	}
}

// DetectTerminal inspects f to decide whether live rendering is possible.
func DetectTerminal(f *os.File) *Terminal {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return NewTerminal(f, false, defaultWidth)
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = defaultWidth
	}
	return NewTerminal(f, true, width)
}

// Interactive reports whether rows can be repainted in place.
func (t *Terminal) Interactive() bool { return t.interactive }

// Width returns the column count used for right alignment.
func (t *Terminal) Width() int { return t.width }

// Renderer returns the lipgloss renderer bound to the terminal's writer.
func (t *Terminal) Renderer() *lipgloss.Renderer { return t.renderer }

// Writer returns the underlying writer.
func (t *Terminal) Writer() io.Writer { return t.w }

// Clear wipes the screen and homes the cursor.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
	if t.interactive {
		fmt.Fprint(t.w, "\033[H\033[2J")
	}
}

// HideCursor hides the cursor while rows are being repainted.
func (t *Terminal) HideCursor() {
	t.escape("\033[?25l")
}

// ShowCursor restores the cursor.
func (t *Terminal) ShowCursor() {
	t.escape("\033[?25h")
}

func (t *Terminal) escape(seq string) {
	if !t.interactive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, seq)
}

// Line writes s on its own line below the current block and starts a new
// block after it.
func (t *Terminal) Line(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
	fmt.Fprintln(t.w, s)
}

// MoveBelow closes the current block; subsequent rows start after it.
func (t *Terminal) MoveBelow() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

func (t *Terminal) reset() {
	t.rows = t.rows[:0]
	t.height = 0
}

// LogWriter returns a writer for diagnostics sharing the screen with the
// progress rows. Each line it writes is accounted to the current block.
func (t *Terminal) LogWriter() io.Writer {
	return logWriter{t}
}

type logWriter struct{ t *Terminal }

func (l logWriter) Write(p []byte) (int, error) {
	l.t.mu.Lock()
	defer l.t.mu.Unlock()
	n, err := l.t.w.Write(p)
	l.t.height += bytes.Count(p[:n], []byte("\n"))
	return n, err
}

// PaintRow replaces row with left followed by right aligned to the last
// column. Non-interactive terminals get the composed line appended.
func (t *Terminal) PaintRow(row int, left, right string) {
	line := t.compose(left, right)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.interactive {
		fmt.Fprintln(t.w, line)
		return
	}
	t.grow(row)
	up := t.height - t.rows[row]
	fmt.Fprintf(t.w, "\033[%dA\r\033[2K%s\033[%dB\r", up, line, up)
}

// PaintAt overwrites row starting at col without clearing the rest of it.
// It is a no-op on non-interactive terminals.
func (t *Terminal) PaintAt(row, col int, s string) {
	if !t.interactive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grow(row)
	up := t.height - t.rows[row]
	fmt.Fprintf(t.w, "\033[%dA\033[%dG%s\033[%dB\r", up, col+1, s, up)
}

// grow extends the block with blank lines until row exists. Caller holds mu.
func (t *Terminal) grow(row int) {
	if row < len(t.rows) {
		return
	}
	added := row + 1 - len(t.rows)
	for range added {
		t.rows = append(t.rows, t.height)
		t.height++
	}
	fmt.Fprint(t.w, strings.Repeat("\n", added))
}

func (t *Terminal) compose(left, right string) string {
	if right == "" {
		return left
	}
	gap := t.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
