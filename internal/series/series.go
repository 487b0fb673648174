package series

import (
	"iter"
	"sort"

	"github.com/roach88/wavescan/internal/logic"
)

// Transition is a value recorded at a timestamp.
type Transition struct {
	Timestamp int64
	Value     logic.Value
}

// Series is a frozen, time-ordered sequence of transitions for one net.
type Series struct {
	width      int
	stride     int // words per entry: payload words followed by unknown words
	timestamps []int64
	words      []uint64
}

// Width returns the bit width of every value in the series.
func (s *Series) Width() int {
	return s.width
}

// Len returns the number of transitions.
func (s *Series) Len() int {
	return len(s.timestamps)
}

// MaxTimestamp returns the last timestamp, or 0 for an empty series.
func (s *Series) MaxTimestamp() int64 {
	if len(s.timestamps) == 0 {
		return 0
	}
	return s.timestamps[len(s.timestamps)-1]
}

// Timestamp returns the timestamp of transition i.
func (s *Series) Timestamp(i int) int64 {
	return s.timestamps[i]
}

// At returns transition i. Panics if i is out of range.
func (s *Series) At(i int) Transition {
	return Transition{
		Timestamp: s.timestamps[i],
		Value:     s.valueAt(i),
	}
}

func (s *Series) valueAt(i int) logic.Value {
	n := s.stride / 2
	off := i * s.stride
	return logic.FromWords(s.width, s.words[off:off+n], s.words[off+n:off+s.stride])
}

// search returns the index of the last transition with timestamp <= ts, or
// -1 if ts precedes every transition.
func (s *Series) search(ts int64) int {
	return sort.Search(len(s.timestamps), func(i int) bool {
		return s.timestamps[i] > ts
	}) - 1
}

// Find returns an iterator positioned so that its first step yields the
// last transition at or before ts. If ts precedes all data the first step
// yields the first transition; for an empty series the iterator is already
// exhausted.
func (s *Series) Find(ts int64) *Iterator {
	start := max(s.search(ts), 0)
	return &Iterator{s: s, start: start, pos: start - 1}
}

// ValueAt returns the value in effect at ts. Times before the first
// transition read the first transition's value. An empty series reports
// ok=false and an all-X value.
func (s *Series) ValueAt(ts int64) (v logic.Value, ok bool) {
	if len(s.timestamps) == 0 {
		return logic.Filled(s.width, logic.X), false
	}
	return s.valueAt(max(s.search(ts), 0)), true
}

// Span describes the interval of time over which the value in effect at a
// given timestamp holds.
type Span struct {
	// Index is the transition holding the value, or -1 for an empty series.
	Index int

	// Start is the timestamp at which the value took effect. Only
	// meaningful when HasStart is true; otherwise the value extends back to
	// the beginning of time.
	Start    int64
	HasStart bool

	// End is the timestamp of the next transition. Only meaningful when
	// HasEnd is true; otherwise the value holds forever.
	End    int64
	HasEnd bool
}

// SpanAt returns the span containing ts.
func (s *Series) SpanAt(ts int64) Span {
	n := len(s.timestamps)
	if n == 0 {
		return Span{Index: -1}
	}
	first := s.timestamps[0]
	i := s.search(ts)
	if i < 0 {
		// Before the first transition the first value is in effect.
		i = s.search(first)
	}

	sp := Span{Index: i}
	if ts >= first && s.timestamps[i] > first {
		sp.Start = s.timestamps[i]
		sp.HasStart = true
	}
	if i+1 < n {
		sp.End = s.timestamps[i+1]
		sp.HasEnd = true
	}
	return sp
}

// All returns a sequence over every transition in order.
func (s *Series) All() iter.Seq[Transition] {
	return func(yield func(Transition) bool) {
		for i := range s.timestamps {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

// Iterator is a restartable forward cursor over a series.
//
//	it := s.Find(ts)
//	for it.Next() {
//	    tr := it.Transition()
//	}
type Iterator struct {
	s     *Series
	start int
	pos   int
}

// Next advances to the next transition and reports whether one exists.
func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.s.timestamps) {
		it.pos = len(it.s.timestamps)
		return false
	}
	it.pos++
	return true
}

// Transition returns the transition at the current position.
// Only valid after Next has returned true.
func (it *Iterator) Transition() Transition {
	return it.s.At(it.pos)
}

// Index returns the series index of the current position.
func (it *Iterator) Index() int {
	return it.pos
}

// Reset rewinds the iterator to where Find positioned it.
func (it *Iterator) Reset() {
	it.pos = it.start - 1
}
