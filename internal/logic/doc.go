// Package logic provides the four-valued bit vector used for every signal
// value in a waveform.
//
// Each bit is one of 0, 1, X (unknown/conflict) or Z (high impedance). A
// Value packs its bits into two parallel word arrays:
//
//	bits     - the literal 0/1 payload
//	unknown  - set when the position is X or Z
//
// The pair (unknown, bit) decodes as:
//
//	(0, 0) = 0    (0, 1) = 1
//	(1, 1) = X    (1, 0) = Z
//
// Key invariants:
//   - No bit at index >= Width is ever set in either array
//   - Values are treated as immutable once handed to a series; use Clone
//     before mutating a Value you did not construct
//
// This package imports nothing internal.
package logic
