// Package harness runs scenario files against the search engine and
// compares the results with expectations and golden snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: clock_edges
//	description: "Rising edges of a gated clock"
//	trace: ../traces/clock.yaml      # or inline nets:, same format
//	searches: ../searches/clock.cue  # optional saved searches
//	steps:
//	  - op: next
//	    expr: "clk = 1"
//	    at: 4
//	    expect: {time: 10}
//	  - op: all
//	    expr: "a and b"
//	    at: 0
//	    to: 100
//	    expect: {times: [15, 25, 45]}
//	  - op: value
//	    net: top.core.count
//	    at: 12
//	    radix: 16
//	    expect: {value: "02"}
//	  - saved: rise
//	    expect: {times: [10, 20]}
//	  - op: next
//	    expr: "nosuch"
//	    expect: {error: UNKNOWN_NET}
//
// # Operations
//
//   - next: first match after at (expect.time, -1 when none)
//   - previous: last match before at (expect.time, -1 when none)
//   - all: start of every match region in [at, to] (expect.times)
//   - matches: whether the query holds at at (expect.match)
//   - value: the value of a net reference at at (expect.value)
//
// A step naming a saved search takes its query, operation and start time
// from the search; at overrides the start time.
//
// # Deterministic Testing
//
// Every scenario trace is written to a fresh in-memory store and read back
// before the steps run, so scenarios exercise the persistence round trip.
// Store IDs come from a fixed generator and logs are discarded, which keeps
// results byte-identical across runs for golden file comparison.
package harness
