package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/vedit/internal/log"
)

// ANSI codes for the cursor cell. Reverse video only, so the surrounding
// style is left intact.
const (
	cursorOn  = "\x1b[7m"
	cursorOff = "\x1b[27m"
)

// Default status-line colors.
var (
	StatusForegroundColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#1A1A1A"}
	StatusBackgroundColor = lipgloss.AdaptiveColor{Light: "#A8A8A8", Dark: "#7D7D7D"}
)

// Styles holds the lipgloss styles used by Paint.
type Styles struct {
	Status lipgloss.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Status: lipgloss.NewStyle().
			Foreground(StatusForegroundColor).
			Background(StatusBackgroundColor),
	}
}

// NewStyles builds styles from configured colors. Empty colors fall back to
// the defaults.
func NewStyles(foreground, background string) Styles {
	s := DefaultStyles()
	if foreground != "" {
		s.Status = s.Status.Foreground(lipgloss.Color(foreground))
	}
	if background != "" {
		s.Status = s.Status.Background(lipgloss.Color(background))
	}
	return s
}

// continuation marks the second column of a wide glyph.
const continuation = -1

// Paint lays plan onto a rows x cols grid and returns it as a string with one
// row per terminal line. The status line occupies the last row.
func Paint(plan Plan, rows, cols int, styles Styles) string {
	if rows <= 0 || cols <= 0 {
		return ""
	}

	grid := make([][]rune, rows-1)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	for _, line := range plan.Lines {
		if line.Row < 0 || line.Row >= len(grid) {
			log.Debug(log.CatRender, "line outside viewport", "row", line.Row, "rows", rows)
			continue
		}
		cells := grid[line.Row]
		for i, r := range []rune(line.Number) {
			if i < cols {
				cells[i] = r
			}
		}
		for _, cell := range line.Cells {
			if cell.Col < 0 || cell.Col+cell.Width > cols {
				continue
			}
			cells[cell.Col] = cell.Rune
			for k := 1; k < cell.Width; k++ {
				cells[cell.Col+k] = continuation
			}
		}
	}

	out := make([]string, 0, rows)
	for row, cells := range grid {
		cursorCol := -1
		if plan.Cursor.Row == row {
			cursorCol = plan.Cursor.Col
		}
		out = append(out, paintRow(cells, cursorCol))
	}

	status := truncate.String(plan.Status, uint(cols))
	out = append(out, styles.Status.Width(cols).Render(status))
	return strings.Join(out, "\n")
}

func paintRow(cells []rune, cursorCol int) string {
	var sb strings.Builder
	for col, r := range cells {
		if r == continuation {
			continue
		}
		if col == cursorCol {
			sb.WriteString(cursorOn)
			sb.WriteRune(r)
			sb.WriteString(cursorOff)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
