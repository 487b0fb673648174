package logic

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrFormat is returned (wrapped) when text is not a valid number in the
// requested radix.
var ErrFormat = errors.New("invalid number format")

// bitsPerDigit returns log2(radix) for power-of-two radices and 0 otherwise.
func bitsPerDigit(radix int) int {
	switch radix {
	case 2:
		return 1
	case 8:
		return 3
	case 16:
		return 4
	default:
		return 0
	}
}

// Parse converts text in the given radix (2, 8, 10 or 16) into a Value.
//
// For power-of-two radices each character contributes log2(radix) bits and
// the width is len(text)*log2(radix). The characters x/X and z/Z set every
// bit of their digit to X or Z respectively.
//
// Radix 10 text is an unsigned integer of arbitrary size; X and Z are not
// allowed. The width is the bit length of the number (at least 1).
func Parse(text string, radix int) (Value, error) {
	if text == "" {
		return Value{}, fmt.Errorf("%w: empty literal", ErrFormat)
	}
	if radix == 10 {
		return parseDecimal(text)
	}
	bpd := bitsPerDigit(radix)
	if bpd == 0 {
		return Value{}, fmt.Errorf("%w: unsupported radix %d", ErrFormat, radix)
	}

	v := New(len(text) * bpd)
	for i := 0; i < len(text); i++ {
		c := text[len(text)-1-i]
		base := i * bpd
		var fill Bit
		switch c {
		case 'x', 'X':
			fill = X
		case 'z', 'Z':
			fill = Z
		default:
			d := digitValue(c)
			if d < 0 || d >= radix {
				return Value{}, fmt.Errorf("%w: %q is not a radix-%d digit in %q", ErrFormat, c, radix, text)
			}
			for k := 0; k < bpd; k++ {
				if d&(1<<k) != 0 {
					v.SetBit(base+k, One)
				}
			}
			continue
		}
		for k := 0; k < bpd; k++ {
			v.SetBit(base+k, fill)
		}
	}
	return v, nil
}

func parseDecimal(text string) (Value, error) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
		case strings.ContainsRune("xXzZ", rune(c)):
			return Value{}, fmt.Errorf("%w: X/Z digits are not allowed in decimal literal %q", ErrFormat, text)
		default:
			return Value{}, fmt.Errorf("%w: %q is not a decimal digit in %q", ErrFormat, c, text)
		}
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	v := New(max(1, n.BitLen()))
	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			v.SetBit(i, One)
		}
	}
	return v, nil
}

// ParseLiteral parses a literal with an optional Verilog-style radix prefix
// ('b, 'o, 'd or 'h, case-insensitive). Text without a prefix is parsed in
// defaultRadix.
func ParseLiteral(text string, defaultRadix int) (Value, int, error) {
	radix := defaultRadix
	if strings.HasPrefix(text, "'") {
		if len(text) < 2 {
			return Value{}, 0, fmt.Errorf("%w: missing radix after ' in %q", ErrFormat, text)
		}
		r, ok := RadixForPrefix(text[1])
		if !ok {
			return Value{}, 0, fmt.Errorf("%w: unknown radix prefix %q in %q", ErrFormat, text[1], text)
		}
		radix = r
		text = text[2:]
	}
	v, err := Parse(text, radix)
	if err != nil {
		return Value{}, 0, err
	}
	return v, radix, nil
}

// RadixForPrefix maps a radix prefix letter to its radix.
func RadixForPrefix(c byte) (int, bool) {
	switch c {
	case 'b', 'B':
		return 2, true
	case 'o', 'O':
		return 8, true
	case 'd', 'D':
		return 10, true
	case 'h', 'H':
		return 16, true
	default:
		return 0, false
	}
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
