package series

import (
	"fmt"

	"github.com/roach88/wavescan/internal/logic"
)

// initialCapacity is the number of entries allocated on the first append.
const initialCapacity = 128

// Builder accumulates transitions for a new Series.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	s      *Series
	frozen bool
}

// NewBuilder returns a builder for a series of the given bit width.
// Panics if width is not positive.
func NewBuilder(width int) *Builder {
	if width < 1 {
		panic(fmt.Sprintf("series: width %d is not positive", width))
	}
	n := (width + 63) / 64
	return &Builder{
		s: &Series{
			width:  width,
			stride: 2 * n,
		},
	}
}

// Len returns the number of transitions appended so far.
func (b *Builder) Len() int {
	return len(b.s.timestamps)
}

// Append records v at ts.
//
// Values narrower than the series are zero-extended and wider values are
// truncated to the low-order bits. Panics if ts is negative, if it is lower
// than the previous timestamp, or if the builder has been finished.
func (b *Builder) Append(ts int64, v logic.Value) {
	if b.frozen {
		panic("series: Append after Finish")
	}
	if ts < 0 {
		panic(fmt.Sprintf("series: negative timestamp %d", ts))
	}
	s := b.s
	if n := len(s.timestamps); n > 0 && ts < s.timestamps[n-1] {
		panic(fmt.Sprintf("series: timestamp %d appended after %d", ts, s.timestamps[n-1]))
	}
	if v.Width() != s.width {
		v = v.Resize(s.width)
	}

	b.grow()
	payload, unknown := v.Words()
	s.timestamps = append(s.timestamps, ts)
	s.words = append(s.words, payload...)
	s.words = append(s.words, unknown...)
}

// grow doubles capacity when the timestamp array is full.
func (b *Builder) grow() {
	s := b.s
	n := len(s.timestamps)
	if n < cap(s.timestamps) {
		return
	}
	newCap := max(initialCapacity, 2*cap(s.timestamps))

	ts := make([]int64, n, newCap)
	copy(ts, s.timestamps)
	s.timestamps = ts

	words := make([]uint64, len(s.words), newCap*s.stride)
	copy(words, s.words)
	s.words = words
}

// Finish freezes the builder and returns the read-only series. Further
// calls return the same series.
func (b *Builder) Finish() *Series {
	b.frozen = true
	return b.s
}
