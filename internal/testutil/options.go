package testutil

// bufferData holds everything needed to construct one buffer.
type bufferData struct {
	name      string
	path      string
	lines     []string
	row, col  int
	modified  bool
	hasCursor bool
}

// defaultBuffer returns a scratch buffer with one empty line.
func defaultBuffer(name string) bufferData {
	return bufferData{name: name}
}

// BufferOption configures a buffer during builder setup.
type BufferOption func(*bufferData)

// Lines sets the buffer content.
func Lines(lines ...string) BufferOption {
	return func(b *bufferData) { b.lines = lines }
}

// Path sets the origin path.
func Path(path string) BufferOption {
	return func(b *bufferData) { b.path = path }
}

// Cursor places the cursor. Values are clamped by the buffer.
func Cursor(row, col int) BufferOption {
	return func(b *bufferData) {
		b.row, b.col = row, col
		b.hasCursor = true
	}
}

// Modified marks the buffer as having unsaved changes.
func Modified() BufferOption {
	return func(b *bufferData) { b.modified = true }
}
