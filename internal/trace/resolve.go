package trace

import (
	"fmt"
	"strings"
)

// MatchSuffix reports whether query names full by a right-aligned dotted
// suffix. Components are compared whole, so "b.c" matches "a.b.c" but not
// "a.xb.c".
func MatchSuffix(full, query string) bool {
	if query == "" {
		return false
	}
	f := strings.Split(full, ".")
	q := strings.Split(query, ".")
	if len(q) > len(f) {
		return false
	}
	off := len(f) - len(q)
	for i := len(q) - 1; i >= 0; i-- {
		if f[off+i] != q[i] {
			return false
		}
	}
	return true
}

// Resolve finds the net that name refers to.
//
// Every net whose full name has name as a dotted suffix is a candidate.
// Candidates backed by the same series are aliases and resolve to the first
// one registered. Candidates backed by different series produce an error
// wrapping ErrAmbiguousNet; no candidates produce ErrUnknownNet.
func Resolve(src Source, name string) (Net, error) {
	name = NormalizeName(name)
	var (
		found   Net
		matched bool
	)
	for _, n := range src.Nets() {
		if !MatchSuffix(n.Name, name) {
			continue
		}
		if !matched {
			found, matched = n, true
			continue
		}
		if n.Series != found.Series {
			return Net{}, fmt.Errorf("%w: %q matches %s and %s", ErrAmbiguousNet, name, found.Name, n.Name)
		}
	}
	if !matched {
		return Net{}, fmt.Errorf("%w: %q", ErrUnknownNet, name)
	}
	return found, nil
}
