package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vedit/internal/mode"
	"github.com/zjrosen/vedit/internal/testutil"
)

func plainStyles() Styles {
	return Styles{Status: lipgloss.NewStyle()}
}

func paintedRows(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestPaint_GridShape(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("hi", "there")).Build()
	plan := Render(set, mode.Insert{}, 4, 20, Options{})

	rows := paintedRows(Paint(plan, 4, 20, plainStyles()))

	require.Len(t, rows, 4)
	require.Equal(t, "   1 hi"+strings.Repeat(" ", 13), rows[0])
	require.Equal(t, "   2 there"+strings.Repeat(" ", 10), rows[1])
	require.Equal(t, strings.Repeat(" ", 20), rows[2])
	for _, r := range rows {
		require.Equal(t, 20, ansi.StringWidth(r))
	}
}

func TestPaint_StatusTruncated(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt").Build()
	plan := Render(set, mode.Normal{}, 3, 12, Options{})

	rows := paintedRows(Paint(plan, 3, 12, DefaultStyles()))

	require.Equal(t, "-- NORMAL --", rows[2])
}

func TestPaint_WideGlyphOccupiesTwoColumns(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a", testutil.Lines("中x")).Build()
	plan := Render(set, mode.Insert{}, 2, 10, Options{})

	rows := paintedRows(Paint(plan, 2, 10, plainStyles()))

	require.Equal(t, "   1 中x  ", rows[0])
	require.Equal(t, 10, ansi.StringWidth(rows[0]))
}

func TestPaint_CursorIsReverseVideo(t *testing.T) {
	set := testutil.NewBuilder(t).
		WithBuffer("a", testutil.Lines("abc"), testutil.Cursor(0, 1)).
		Build()
	plan := Render(set, mode.Insert{}, 2, 10, Options{})

	out := Paint(plan, 2, 10, plainStyles())

	require.Contains(t, out, cursorOn+"b"+cursorOff)
}

func TestPaint_CursorAtEndOfLine(t *testing.T) {
	set := testutil.NewBuilder(t).
		WithBuffer("a", testutil.Lines("abc"), testutil.Cursor(0, 3)).
		Build()
	plan := Render(set, mode.Insert{}, 2, 10, Options{})

	out := Paint(plan, 2, 10, plainStyles())

	require.Contains(t, out, "abc"+cursorOn+" "+cursorOff)
}

func TestPaint_DegenerateViewports(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a", testutil.Lines("abc")).Build()

	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero", 0, 0},
		{"no rows", 0, 10},
		{"no cols", 5, 0},
		{"one row", 1, 10},
		{"one col", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Render(set, mode.Insert{}, tt.rows, tt.cols, Options{})
			require.NotPanics(t, func() {
				_ = Paint(plan, tt.rows, tt.cols, DefaultStyles())
			})
		})
	}
}

func TestPaint_OneRowIsStatusOnly(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a", testutil.Lines("abc")).Build()
	plan := Render(set, mode.Command{Line: "w"}, 1, 10, Options{})

	rows := paintedRows(Paint(plan, 1, 10, plainStyles()))

	require.Equal(t, []string{":w        "}, rows)
}

func TestNewStyles_FallsBackToDefaults(t *testing.T) {
	def := DefaultStyles()
	s := NewStyles("", "")
	require.Equal(t, def.Status.GetForeground(), s.Status.GetForeground())
	require.Equal(t, def.Status.GetBackground(), s.Status.GetBackground())

	s = NewStyles("#FF0000", "")
	require.Equal(t, lipgloss.Color("#FF0000"), s.Status.GetForeground())
	require.Equal(t, def.Status.GetBackground(), s.Status.GetBackground())
}
