// Package store provides SQLite-backed durable storage for imported traces.
//
// A stored trace consists of:
//   - Traces: one row per import, with a unique name and a UUIDv7 ID
//   - Series: one row per distinct transition series (aliases share one)
//   - Nets: named references to a series, in registration order
//   - Transitions: the (timestamp, value) pairs of each series, by seq
//
// # Ordering
//
// Reads always order explicitly (ORDER BY position, seq, name, id COLLATE
// BINARY) so a trace read back registers its nets and appends its
// transitions in exactly the order they were written. Equal timestamps
// within a series keep their append order through seq.
//
// # Value Encoding
//
// Values are stored as their radix-2 text ("01XZ"), one character per bit
// with the most significant bit first, which preserves width and every
// unknown bit.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting a trace cascades to its nets and transitions
package store
