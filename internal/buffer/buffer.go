// Package buffer holds the in-memory document model: a named sequence of
// lines with a cursor, and an ordered set of such documents with one active.
//
// Invariants maintained by every operation:
//
//   - a Buffer always has at least one line (possibly empty)
//   - 0 <= row < LineCount()
//   - 0 <= col <= len(Line(row)); col == len means "after the last rune"
//
// Columns count runes, not bytes or display cells.
package buffer

import "strings"

// Buffer is one document with its own cursor.
type Buffer struct {
	name     string
	path     string
	lines    [][]rune
	row      int
	col      int
	modified bool
}

// New creates a scratch buffer with no origin path. With no lines the
// buffer holds a single empty line.
func New(name string, lines ...string) *Buffer {
	return NewFromFile(name, "", lines)
}

// NewFromFile creates a buffer whose content came from path.
func NewFromFile(name, path string, lines []string) *Buffer {
	b := &Buffer{name: name, path: path}
	b.setLines(lines)
	return b
}

func (b *Buffer) setLines(lines []string) {
	b.lines = make([][]rune, 0, max(len(lines), 1))
	for _, l := range lines {
		b.lines = append(b.lines, []rune(l))
	}
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	b.row, b.col = 0, 0
}

// Name returns the document name shown in the status line.
func (b *Buffer) Name() string { return b.name }

// Path returns the origin path, or "" for scratch buffers.
func (b *Buffer) Path() string { return b.path }

// Modified reports whether content changed since creation or the last MarkSaved.
func (b *Buffer) Modified() bool { return b.modified }

// MarkSaved clears the modified flag.
func (b *Buffer) MarkSaved() { b.modified = false }

// Cursor returns the cursor row and rune column.
func (b *Buffer) Cursor() (row, col int) { return b.row, b.col }

// LineCount returns the number of lines (always >= 1).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the runes of line i, or nil when i is out of range.
// The returned slice must not be modified.
func (b *Buffer) Line(i int) []rune {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}

// Lines returns a copy of the content as strings.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// String returns the content joined with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// SetCursor moves the cursor, clamping to the valid range.
func (b *Buffer) SetCursor(row, col int) {
	b.row = max(0, min(row, len(b.lines)-1))
	b.col = max(0, min(col, len(b.lines[b.row])))
}

// InsertChar inserts ch at the cursor and advances the column by one.
// A row past the end grows the buffer with empty lines; a column past the
// end of the line is clamped first.
func (b *Buffer) InsertChar(ch rune) {
	if b.row < 0 {
		b.row = 0
	}
	for b.row >= len(b.lines) {
		b.lines = append(b.lines, []rune{})
	}
	line := b.lines[b.row]
	b.col = max(0, min(b.col, len(line)))

	next := make([]rune, 0, len(line)+1)
	next = append(next, line[:b.col]...)
	next = append(next, ch)
	next = append(next, line[b.col:]...)
	b.lines[b.row] = next

	b.col++
	b.modified = true
}

// SplitLine breaks the current line at the cursor. The remainder becomes a
// new line below and the cursor moves to its start.
func (b *Buffer) SplitLine() {
	b.clamp()
	line := b.lines[b.row]

	head := append([]rune(nil), line[:b.col]...)
	tail := append([]rune(nil), line[b.col:]...)

	lines := make([][]rune, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:b.row]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[b.row+1:]...)
	b.lines = lines

	b.row++
	b.col = 0
	b.modified = true
}

// DeleteBackward removes the rune before the cursor. At column zero the
// line is joined onto the previous one. No-op at the start of the buffer.
func (b *Buffer) DeleteBackward() {
	b.clamp()
	if b.col > 0 {
		line := b.lines[b.row]
		next := make([]rune, 0, len(line)-1)
		next = append(next, line[:b.col-1]...)
		next = append(next, line[b.col:]...)
		b.lines[b.row] = next
		b.col--
		b.modified = true
		return
	}
	if b.row == 0 {
		return
	}

	prev := b.lines[b.row-1]
	joined := make([]rune, 0, len(prev)+len(b.lines[b.row]))
	joined = append(joined, prev...)
	joined = append(joined, b.lines[b.row]...)

	lines := make([][]rune, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:b.row-1]...)
	lines = append(lines, joined)
	lines = append(lines, b.lines[b.row+1:]...)
	b.lines = lines

	b.row--
	b.col = len(prev)
	b.modified = true
}

// MoveLeft moves one rune left, stopping at column 0.
func (b *Buffer) MoveLeft() {
	b.clamp()
	if b.col > 0 {
		b.col--
	}
}

// MoveRight moves one rune right, stopping after the last rune.
func (b *Buffer) MoveRight() {
	b.clamp()
	if b.col < len(b.lines[b.row]) {
		b.col++
	}
}

// MoveUp moves to the previous line, clamping the column to its length.
func (b *Buffer) MoveUp() {
	b.clamp()
	if b.row > 0 {
		b.row--
		b.col = min(b.col, len(b.lines[b.row]))
	}
}

// MoveDown moves to the next line, clamping the column to its length.
func (b *Buffer) MoveDown() {
	b.clamp()
	if b.row+1 < len(b.lines) {
		b.row++
		b.col = min(b.col, len(b.lines[b.row]))
	}
}

// clamp restores the cursor invariants.
func (b *Buffer) clamp() {
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	b.SetCursor(b.row, b.col)
}
