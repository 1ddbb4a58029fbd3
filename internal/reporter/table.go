package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ppiankov/tux/internal/task"
)

// RenderSummary draws one row per subject and one column per report column,
// followed by an overall status column.
func RenderSummary(r *lipgloss.Renderer, report *task.Report) string {
	pal := newPalette(r)
	columns := report.Columns.Names()

	headers := make([]string, 0, len(columns)+2)
	headers = append(headers, "subject")
	headers = append(headers, columns...)
	headers = append(headers, "status")

	rows := make([][]string, 0, len(report.Order))
	for _, id := range report.Order {
		row := make([]string, 0, len(headers))
		row = append(row, id)
		for _, col := range columns {
			row = append(row, report.Cell(id, col).String())
		}
		row = append(row, subjectStatus(report.Results[id]))
		rows = append(rows, row)
	}

	cell := r.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(pal.dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Inherit(pal.header)
			}
			if row < 0 || row >= len(rows) || col >= len(rows[row]) {
				return cell
			}
			switch rows[row][col] {
			case "ok", "passed":
				return cell.Inherit(pal.ok)
			case "ko", "failed", "aborted":
				return cell.Inherit(pal.ko)
			case "-":
				return cell.Inherit(pal.dim)
			}
			return cell
		})

	return t.String()
}

func subjectStatus(res *task.RunResult) string {
	switch {
	case res == nil:
		return "-"
	case res.Success:
		return "passed"
	case res.AbortedEarly && len(res.Outcomes) == 0:
		return "aborted"
	default:
		return "failed"
	}
}

// Verdict is the closing line printed after the summary.
func Verdict(report *task.Report) string {
	if report.Success() {
		return "Code can be committed"
	}
	failed := report.Failed()
	return fmt.Sprintf("Code cannot be committed: %d of %d subjects failed (%s)",
		len(failed), len(report.Order), strings.Join(failed, ", "))
}

// PrintSummary writes the table and the verdict below the progress rows.
func PrintSummary(t *Terminal, report *task.Report) {
	t.MoveBelow()
	t.Line("")
	t.Line(RenderSummary(t.Renderer(), report))

	pal := newPalette(t.Renderer())
	style := pal.ok
	if !report.Success() {
		style = pal.ko
	}
	t.Line(style.Render(Verdict(report)) + pal.dim.Render(fmt.Sprintf(" in %s", report.Duration.Round(time.Millisecond))))
}

// RenderPlan lists the tasks of a subject without running them.
func RenderPlan(r *lipgloss.Renderer, s task.Subject) string {
	pal := newPalette(r)

	rows := make([][]string, 0, len(s.Tasks))
	for _, d := range s.Tasks {
		rows = append(rows, []string{fmt.Sprint(d.Index + 1), d.Category, d.Title, d.Command, d.CaptureName})
	}

	cell := r.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(pal.dim).
		Headers("#", "category", "title", "command", "capture").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Inherit(pal.header)
			}
			if col == 3 {
				return cell.Inherit(pal.ok)
			}
			return cell
		})

	return pal.header.Render(s.ID) + "\n" + t.String()
}
