// Package render projects editor state into a draw plan and paints plans
// into terminal strings.
//
// Render is pure: it reads the buffer set and mode state and never mutates
// them. Paint turns a Plan into the string a Bubble Tea view returns.
package render

import (
	"fmt"

	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/glyph"
	"github.com/zjrosen/vedit/internal/mode"
)

// GutterWidth is the number of columns taken by the line-number field.
const GutterWidth = 5

// DefaultHint is shown in the status line outside Command mode.
const DefaultHint = "command =>:w save :q exit tab switch"

// Cell is one glyph placed at a screen column.
type Cell struct {
	Col   int
	Rune  rune
	Width int
}

// Line is one visible buffer line.
type Line struct {
	Row    int
	Number string
	Cells  []Cell
}

// Cursor is a screen position for the terminal cursor.
type Cursor struct {
	Row int
	Col int
}

// Plan is everything needed to draw one frame.
type Plan struct {
	Lines  []Line
	Status string
	Cursor Cursor
}

// Options tunes rendering. The zero value uses the heuristic classifier and
// DefaultHint.
type Options struct {
	Classifier glyph.Classifier
	Hint       string
	// Message replaces the hint when non-empty.
	Message string
}

func (o Options) classifier() glyph.Classifier {
	if o.Classifier == nil {
		return glyph.Heuristic{}
	}
	return o.Classifier
}

// Render builds the draw plan for the active buffer in a rows x cols viewport.
// The last row is reserved for the status line.
func Render(set *buffer.Set, st mode.State, rows, cols int, opts Options) Plan {
	c := opts.classifier()
	buf := set.Active()

	visible := min(buf.LineCount(), rows-1)
	visible = max(visible, 0)

	plan := Plan{
		Lines:  make([]Line, 0, visible),
		Status: statusLine(buf, st, opts),
	}
	for i := range visible {
		plan.Lines = append(plan.Lines, renderLine(buf.Line(i), i, cols, c))
	}

	row, col := buf.Cursor()
	plan.Cursor = Cursor{
		Row: row,
		Col: GutterWidth + glyph.PrefixWidth(c, buf.Line(row), col),
	}
	return plan
}

func renderLine(line []rune, row, cols int, c glyph.Classifier) Line {
	l := Line{
		Row:    row,
		Number: fmt.Sprintf("%4d ", row+1),
	}
	col := GutterWidth
	for _, r := range line {
		w := c.Width(r)
		if col+w > cols {
			break
		}
		l.Cells = append(l.Cells, Cell{Col: col, Rune: r, Width: w})
		col += w
	}
	return l
}

func statusLine(buf *buffer.Buffer, st mode.State, opts Options) string {
	if cmd, ok := st.(mode.Command); ok {
		return ":" + cmd.Line
	}

	name := buf.Name()
	if buf.Modified() {
		name += "[+]"
	}

	tail := opts.Message
	if tail == "" {
		tail = opts.Hint
	}
	if tail == "" {
		tail = DefaultHint
	}

	return fmt.Sprintf("-- %s --  %s  %s", st.Mode(), name, tail)
}
