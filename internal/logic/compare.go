package logic

import "math/bits"

// Compare compares the magnitudes of v and o and returns -1, 0 or 1.
//
// Positions where either operand is X or Z are wildcards: they are skipped
// and never cause inequality on their own. Operands of different widths are
// compared as if the shorter one were zero-extended, so a 1 in the longer
// operand's extra high-order bits decides the result in its favour. X or Z
// bits in those extra positions are wildcards like any other unknown bit.
func (v Value) Compare(o Value) int {
	n := max(len(v.bits), len(o.bits))
	for w := n - 1; w >= 0; w-- {
		a, au := v.word(w)
		b, bu := o.word(w)
		diff := (a ^ b) &^ (au | bu)
		if diff == 0 {
			continue
		}
		top := uint64(1) << (bits.Len64(diff) - 1)
		if a&top != 0 {
			return 1
		}
		return -1
	}
	return 0
}

// word returns payload and unknown word w, or zeros past the end.
func (v Value) word(w int) (uint64, uint64) {
	if w >= len(v.bits) {
		return 0, 0
	}
	return v.bits[w], v.unknown[w]
}
