// Package testutil provides deterministic helpers for building waveforms in
// tests.
package testutil

import (
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavescan/internal/logic"
	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/trace"
)

// Change is a value change at a timestamp.
type Change struct {
	At    int64
	Value uint64
}

// Series builds a series of the given width from changes, which must be in
// non-decreasing time order.
func Series(width int, changes ...Change) *series.Series {
	b := series.NewBuilder(width)
	for _, c := range changes {
		b.Append(c.At, logic.FromUint64(width, c.Value))
	}
	return b.Finish()
}

// Counter builds a series holding value i at stamps[i].
func Counter(width int, stamps ...int64) *series.Series {
	b := series.NewBuilder(width)
	for i, ts := range stamps {
		b.Append(ts, logic.FromUint64(width, uint64(i)))
	}
	return b.Finish()
}

// Pulses builds a 1-bit series that is 0 at time 0 and 1 on each half-open
// interval [start, end). An end of 0 leaves the signal high forever.
//
//	Pulses([2]int64{5, 10}, [2]int64{15, 0}) // high on [5,10) and [15,∞)
func Pulses(intervals ...[2]int64) *series.Series {
	b := series.NewBuilder(1)
	b.Append(0, logic.FromUint64(1, 0))
	for _, iv := range intervals {
		b.Append(iv[0], logic.FromUint64(1, 1))
		if iv[1] != 0 {
			b.Append(iv[1], logic.FromUint64(1, 0))
		}
	}
	return b.Finish()
}

// NetSpec names a series for Trace.
type NetSpec struct {
	Name   string
	Series *series.Series
}

// Net is a shorthand for NetSpec.
func Net(name string, s *series.Series) NetSpec {
	return NetSpec{Name: name, Series: s}
}

// TB is the subset of testing.TB the waveform helpers need.
type TB interface {
	require.TestingT
	Helper()
}

// Trace builds a trace from nets in the given order, failing the test on
// error.
func Trace(t TB, nets ...NetSpec) *trace.Trace {
	t.Helper()
	tr := trace.New()
	for _, n := range nets {
		require.NoError(t, tr.AddNet(n.Name, n.Series), "AddNet(%q)", n.Name)
	}
	return tr
}
