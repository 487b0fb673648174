package trace

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/wavescan/internal/series"
)

// Net is a named signal and its transitions.
type Net struct {
	Name   string
	Width  int
	Series *series.Series
}

// Source is the read-only net catalogue consumed by the search engine.
type Source interface {
	// Nets returns every net in a stable order.
	Nets() []Net

	// MaxTimestamp returns the largest timestamp across all nets.
	MaxTimestamp() int64
}

var (
	// ErrUnknownNet is returned when no net matches a name.
	ErrUnknownNet = errors.New("unknown net")

	// ErrAmbiguousNet is returned when a name matches nets backed by
	// different series.
	ErrAmbiguousNet = errors.New("ambiguous net")
)

// Trace is an in-memory Source.
type Trace struct {
	nets         []Net
	byName       map[string]int
	maxTimestamp int64
}

// New returns an empty trace.
func New() *Trace {
	return &Trace{byName: make(map[string]int)}
}

// NormalizeName returns the canonical (NFC, trimmed) form of a net name.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// AddNet registers s under name. Registering the same series under several
// names creates aliases.
func (t *Trace) AddNet(name string, s *series.Series) error {
	name = NormalizeName(name)
	if name == "" {
		return fmt.Errorf("net name is empty")
	}
	if s == nil {
		return fmt.Errorf("net %q: nil series", name)
	}
	if _, exists := t.byName[name]; exists {
		return fmt.Errorf("net %q already defined", name)
	}
	t.byName[name] = len(t.nets)
	t.nets = append(t.nets, Net{Name: name, Width: s.Width(), Series: s})
	t.maxTimestamp = max(t.maxTimestamp, s.MaxTimestamp())
	return nil
}

// Nets returns all nets in registration order.
func (t *Trace) Nets() []Net {
	return slices.Clone(t.nets)
}

// MaxTimestamp returns the largest timestamp across all nets.
func (t *Trace) MaxTimestamp() int64 {
	return t.maxTimestamp
}

// Net returns the net with exactly the given full name.
func (t *Trace) Net(name string) (Net, bool) {
	i, ok := t.byName[NormalizeName(name)]
	if !ok {
		return Net{}, false
	}
	return t.nets[i], true
}

// Lookup resolves name with the fuzzy suffix rules of Resolve.
func (t *Trace) Lookup(name string) (Net, error) {
	return Resolve(t, name)
}

// Scopes returns every scope path implied by the net names, sorted.
func (t *Trace) Scopes() []string {
	seen := make(map[string]bool)
	for _, n := range t.nets {
		parts := strings.Split(n.Name, ".")
		for i := 1; i < len(parts); i++ {
			seen[strings.Join(parts[:i], ".")] = true
		}
	}
	scopes := make([]string, 0, len(seen))
	for s := range seen {
		scopes = append(scopes, s)
	}
	slices.Sort(scopes)
	return scopes
}

// SeriesCount returns the number of distinct series (nets minus aliases).
func (t *Trace) SeriesCount() int {
	seen := make(map[*series.Series]bool, len(t.nets))
	for _, n := range t.nets {
		seen[n.Series] = true
	}
	return len(seen)
}
