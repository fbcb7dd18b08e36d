// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vedit/internal/buffer"
)

// Builder accumulates buffers and produces a buffer.Set.
type Builder struct {
	t       *testing.T
	buffers []bufferData
	active  int
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithBuffer adds a buffer with optional configuration.
func (b *Builder) WithBuffer(name string, opts ...BufferOption) *Builder {
	data := defaultBuffer(name)
	for _, opt := range opts {
		opt(&data)
	}
	b.buffers = append(b.buffers, data)
	return b
}

// WithActive selects which buffer is active after Build.
func (b *Builder) WithActive(index int) *Builder {
	b.active = index
	return b
}

// Build constructs the set. It fails the test if no buffers were added or
// the active index is out of range.
func (b *Builder) Build() *buffer.Set {
	b.t.Helper()

	bufs := make([]*buffer.Buffer, 0, len(b.buffers))
	for _, data := range b.buffers {
		bufs = append(bufs, b.buildBuffer(data))
	}

	set, err := buffer.NewSet(bufs...)
	require.NoError(b.t, err)
	require.GreaterOrEqual(b.t, b.active, 0, "active index")
	require.Less(b.t, b.active, set.Len(), "active index")

	for set.ActiveIndex() != b.active {
		set.SwitchNext()
	}
	return set
}

func (b *Builder) buildBuffer(data bufferData) *buffer.Buffer {
	b.t.Helper()

	buf := buffer.NewFromFile(data.name, data.path, data.lines)
	if data.modified {
		// Force the flag through a mutation that leaves content unchanged.
		row, col := buf.Cursor()
		buf.InsertChar('x')
		buf.DeleteBackward()
		buf.SetCursor(row, col)
	}
	if data.hasCursor {
		buf.SetCursor(data.row, data.col)
	}
	return buf
}
