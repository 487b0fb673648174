package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulses(t *testing.T) {
	s := Pulses([2]int64{5, 10}, [2]int64{15, 0})
	want := map[int64]uint64{0: 0, 4: 0, 5: 1, 9: 1, 10: 0, 14: 0, 15: 1, 1000: 1}
	for ts, w := range want {
		v, ok := s.ValueAt(ts)
		require.True(t, ok)
		assert.Equal(t, w, v.Uint64(), "at %d", ts)
	}
}

func TestCounterAndTrace(t *testing.T) {
	tr := Trace(t,
		Net("top.count", Counter(4, 0, 1, 2)),
		Net("top.bus", Series(8, Change{0, 0xaa}, Change{7, 0x55})),
	)
	assert.Equal(t, int64(7), tr.MaxTimestamp())

	n, ok := tr.Net("top.count")
	require.True(t, ok)
	v, _ := n.Series.ValueAt(2)
	assert.Equal(t, uint64(2), v.Uint64())
}

// recordingT captures failures instead of stopping the test.
type recordingT struct {
	errors []string
	failed bool
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() { r.failed = true }

func (r *recordingT) Helper() {}

func TestTrace_FailsOnDuplicateNet(t *testing.T) {
	rec := &recordingT{}
	Trace(rec,
		Net("top.clk", Counter(1, 0)),
		Net("top.clk", Counter(1, 0)),
	)
	assert.True(t, rec.failed)
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "already defined")
	assert.Contains(t, rec.errors[0], `AddNet("top.clk")`)
}
