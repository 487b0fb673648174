// Package series provides the compact, append-only transition store for a
// single net.
//
// A Series holds an ordered array of timestamps and, in parallel, the value
// recorded at each timestamp packed two bits per value bit into one growable
// word buffer. Entries are addressed by index, never by pointer, so the
// buffer can be reallocated freely while it is being built.
//
// # Lifecycle
//
//	b := series.NewBuilder(8)
//	b.Append(0, v0)
//	b.Append(10, v1)
//	s := b.Finish() // read-only from here on
//
// Timestamps are non-negative and must be appended in non-decreasing order. Equal timestamps are
// allowed; lookups always resolve to the last transition at or before the
// requested time.
//
// # Concurrency
//
// A finished Series is never mutated and may be read by any number of
// goroutines without locking. Iterators are independent cursors and are not
// themselves safe for concurrent use.
package series
