package buffer

import (
	"errors"

	"github.com/zjrosen/vedit/internal/log"
)

// ErrEmptySet is returned when a Set is constructed without buffers.
var ErrEmptySet = errors.New("buffer set must contain at least one buffer")

// Set is an ordered, fixed collection of buffers with one active.
type Set struct {
	buffers []*Buffer
	active  int
}

// NewSet builds a set from bufs in order. The first buffer is active.
func NewSet(bufs ...*Buffer) (*Set, error) {
	if len(bufs) == 0 {
		return nil, ErrEmptySet
	}
	for _, b := range bufs {
		if b == nil {
			return nil, errors.New("buffer set contains a nil buffer")
		}
	}
	return &Set{buffers: append([]*Buffer(nil), bufs...)}, nil
}

// Active returns the active buffer.
func (s *Set) Active() *Buffer { return s.buffers[s.active] }

// ActiveIndex returns the index of the active buffer.
func (s *Set) ActiveIndex() int { return s.active }

// Len returns the number of buffers.
func (s *Set) Len() int { return len(s.buffers) }

// At returns the buffer at index i, or nil when out of range.
func (s *Set) At(i int) *Buffer {
	if i < 0 || i >= len(s.buffers) {
		return nil
	}
	return s.buffers[i]
}

// SwitchNext activates the next buffer, wrapping to the first.
func (s *Set) SwitchNext() {
	s.active = (s.active + 1) % len(s.buffers)
	log.Debug(log.CatBuffer, "switched buffer", "index", s.active, "name", s.Active().Name())
}
