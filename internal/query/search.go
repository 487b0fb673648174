package query

import (
	"iter"
	"slices"

	"github.com/roach88/wavescan/internal/trace"
)

// NotFound is returned by Next and Previous when there is no match.
// Trace timestamps are never negative, so it cannot name a real time.
const NotFound int64 = -1

// Search is a parsed query bound to a set of nets.
//
// A Search is immutable and safe for concurrent use.
type Search struct {
	text string
	root BoolNode
	nets []trace.Net
}

// Parse parses text and resolves its net names against src.
func Parse(text string, src trace.Source) (*Search, error) {
	root, nets, err := ParseExpr(text, src)
	if err != nil {
		return nil, err
	}
	return &Search{text: text, root: root, nets: nets}, nil
}

// New wraps an already built expression tree.
func New(root BoolNode) *Search {
	return &Search{text: root.String(), root: root}
}

// Text returns the query as written.
func (s *Search) Text() string {
	return s.text
}

// Root returns the expression tree.
func (s *Search) Root() BoolNode {
	return s.root
}

// Nets returns the distinct nets the query reads, in order of first use.
func (s *Search) Nets() []trace.Net {
	return slices.Clone(s.nets)
}

// String renders the tree as a fully parenthesized prefix expression.
func (s *Search) String() string {
	return s.root.String()
}

// Matches reports whether the expression is true at ts.
func (s *Search) Matches(ts int64) bool {
	ok, _ := s.root.Eval(ts)
	return ok
}

// Eval evaluates the expression at ts and returns its hint.
func (s *Search) Eval(ts int64) (bool, Hint) {
	return s.root.Eval(ts)
}

// Next returns the first time after ts at which the expression becomes
// true, or NotFound. If ts is inside a match region the search first leaves
// that region, so repeated calls step from match to match.
func (s *Search) Next(ts int64) int64 {
	ok, h := s.root.Eval(ts)
	for ok {
		if h.Next == Forever {
			return NotFound
		}
		ts = h.Next
		ok, h = s.root.Eval(ts)
	}
	for !ok {
		if h.Next == Forever {
			return NotFound
		}
		ts = h.Next
		ok, h = s.root.Eval(ts)
	}
	return ts
}

// First returns ts if the expression holds there, otherwise Next(ts). It is
// the start of a scan that should report a match region already open at ts.
func (s *Search) First(ts int64) int64 {
	if s.Matches(ts) {
		return ts
	}
	return s.Next(ts)
}

// Previous returns the last time before ts at which the expression is true
// and which lies outside the match region containing ts, or NotFound. The
// result is the final instant of the previous match region.
func (s *Search) Previous(ts int64) int64 {
	ok, h := s.root.Eval(ts)
	for ok {
		if h.Prev == Never {
			return NotFound
		}
		ts = h.Prev
		ok, h = s.root.Eval(ts)
	}
	for !ok {
		if h.Prev == Never {
			return NotFound
		}
		ts = h.Prev
		ok, h = s.root.Eval(ts)
	}
	return ts
}

// All yields the start of every match region that begins in [from, to). If
// the expression already holds at from, from itself is yielded first.
func (s *Search) All(from, to int64) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		if from >= to {
			return
		}
		ts := from
		if s.Matches(ts) {
			if !yield(ts) {
				return
			}
		}
		for {
			ts = s.Next(ts)
			if ts == NotFound || ts >= to {
				return
			}
			if !yield(ts) {
				return
			}
		}
	}
}
