package trace

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wavescan/internal/logic"
	"github.com/roach88/wavescan/internal/series"
)

// Fixture is the YAML description of a trace, used by tests, scenarios
// and the CLI in place of a simulator dump.
//
//	nets:
//	  - name: top.clk
//	    width: 1
//	    transitions:
//	      - {at: 0, value: "0"}
//	      - {at: 10, value: "1"}
//	  - name: top.core.clk
//	    alias_of: top.clk
type Fixture struct {
	Nets []FixtureNet `yaml:"nets"`
}

// FixtureNet describes one net.
type FixtureNet struct {
	// Name is the full dotted name.
	Name string `yaml:"name"`

	// Width is the bit width. Required unless AliasOf is set.
	Width int `yaml:"width,omitempty"`

	// Radix is the default radix of transition values (2 if unset).
	// Individual values may override it with a 'b/'o/'d/'h prefix.
	Radix int `yaml:"radix,omitempty"`

	// AliasOf names an earlier net whose series this net shares.
	AliasOf string `yaml:"alias_of,omitempty"`

	// Transitions in non-decreasing time order.
	Transitions []FixtureTransition `yaml:"transitions,omitempty"`
}

// FixtureTransition is a single value change.
type FixtureTransition struct {
	At    int64  `yaml:"at"`
	Value string `yaml:"value"`
}

// LoadFile reads a YAML fixture from path and builds the trace.
func LoadFile(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses a YAML fixture and builds the trace. Unknown fields are
// rejected.
func Decode(r io.Reader) (*Trace, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return f.Build()
}

// Build constructs a trace from the fixture.
func (f *Fixture) Build() (*Trace, error) {
	return BuildNets(f.Nets)
}

// BuildNets constructs a trace from net descriptions.
func BuildNets(nets []FixtureNet) (*Trace, error) {
	t := New()
	for i, fn := range nets {
		s, err := fn.build(t)
		if err != nil {
			return nil, fmt.Errorf("nets[%d] %q: %w", i, fn.Name, err)
		}
		if err := t.AddNet(fn.Name, s); err != nil {
			return nil, fmt.Errorf("nets[%d]: %w", i, err)
		}
	}
	return t, nil
}

func (fn FixtureNet) build(t *Trace) (*series.Series, error) {
	if fn.AliasOf != "" {
		if len(fn.Transitions) > 0 || fn.Width != 0 {
			return nil, fmt.Errorf("alias cannot declare width or transitions")
		}
		target, ok := t.Net(fn.AliasOf)
		if !ok {
			return nil, fmt.Errorf("alias target %q not defined", fn.AliasOf)
		}
		return target.Series, nil
	}

	if fn.Width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", fn.Width)
	}
	radix := fn.Radix
	if radix == 0 {
		radix = 2
	}

	b := series.NewBuilder(fn.Width)
	for j, tr := range fn.Transitions {
		if tr.At < 0 {
			return nil, fmt.Errorf("transitions[%d]: negative timestamp %d", j, tr.At)
		}
		if j > 0 && tr.At < fn.Transitions[j-1].At {
			return nil, fmt.Errorf("transitions[%d]: timestamp %d precedes %d", j, tr.At, fn.Transitions[j-1].At)
		}
		v, _, err := logic.ParseLiteral(tr.Value, radix)
		if err != nil {
			return nil, fmt.Errorf("transitions[%d]: %w", j, err)
		}
		b.Append(tr.At, v)
	}
	return b.Finish(), nil
}

// FixtureFrom converts a trace back into its fixture description, writing
// values in binary. Aliases are emitted with AliasOf.
func FixtureFrom(src Source) Fixture {
	var f Fixture
	owner := make(map[*series.Series]string)
	for _, n := range src.Nets() {
		if first, ok := owner[n.Series]; ok {
			f.Nets = append(f.Nets, FixtureNet{Name: n.Name, AliasOf: first})
			continue
		}
		owner[n.Series] = n.Name
		fn := FixtureNet{Name: n.Name, Width: n.Width}
		for tr := range n.Series.All() {
			fn.Transitions = append(fn.Transitions, FixtureTransition{
				At:    tr.Timestamp,
				Value: tr.Value.Format(2),
			})
		}
		f.Nets = append(f.Nets, fn)
	}
	return f
}
