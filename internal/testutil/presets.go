package testutil

// Names of the scratch buffers an editor starts with when given no files.
const (
	FirstScratch  = "file1.txt"
	SecondScratch = "file2.txt"
)

// WithStandardBuffers adds the two empty scratch buffers the editor opens
// by default.
func (b *Builder) WithStandardBuffers() *Builder {
	return b.
		WithBuffer(FirstScratch).
		WithBuffer(SecondScratch)
}

// WithSampleText adds three named buffers with mixed narrow and wide
// content, cursor parked in the middle of the first.
func (b *Builder) WithSampleText() *Builder {
	return b.
		WithBuffer("ascii.txt", Lines("hello", "world", ""), Cursor(1, 2)).
		WithBuffer("cjk.txt", Lines("中文", "a中b")).
		WithBuffer("long.txt", Lines("0123456789abcdefghijklmnopqrstuvwxyz"))
}
