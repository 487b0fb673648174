package logic

import (
	"fmt"
	"math/big"
	"strings"
)

const hexDigits = "0123456789abcdef"

// Format renders v in the given radix (2, 8, 10 or 16).
//
// Power-of-two radices produce one character per digit, most significant
// first. A digit renders as Z only if every bit in it is Z, as X if any bit
// is unknown, and otherwise as its numeric digit.
//
// Radix 10 reads X and Z bits as 0. This is an approximation used for
// display only.
//
// Panics on an unsupported radix.
func (v Value) Format(radix int) string {
	if radix == 10 {
		return v.formatDecimal()
	}
	bpd := bitsPerDigit(radix)
	if bpd == 0 {
		panic(fmt.Sprintf("logic: unsupported radix %d", radix))
	}

	digits := (v.width + bpd - 1) / bpd
	var sb strings.Builder
	sb.Grow(digits)
	for d := digits - 1; d >= 0; d-- {
		var val int
		allZ, anyUnknown := true, false
		for k := 0; k < bpd; k++ {
			i := d*bpd + k
			if i >= v.width {
				break
			}
			switch v.Bit(i) {
			case One:
				val |= 1 << k
				allZ = false
			case Zero:
				allZ = false
			case X:
				anyUnknown = true
				allZ = false
			case Z:
				anyUnknown = true
			}
		}
		switch {
		case allZ:
			sb.WriteByte('Z')
		case anyUnknown:
			sb.WriteByte('X')
		default:
			sb.WriteByte(hexDigits[val])
		}
	}
	return sb.String()
}

func (v Value) formatDecimal() string {
	n := new(big.Int)
	w := new(big.Int)
	for i := len(v.bits) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		n.Or(n, w.SetUint64(v.bits[i]&^v.unknown[i]))
	}
	return n.String()
}

// String renders v in binary.
func (v Value) String() string {
	return v.Format(2)
}
