package logic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Radices(t *testing.T) {
	tests := []struct {
		text  string
		radix int
		width int
		bin   string
	}{
		{"1011", 2, 4, "1011"},
		{"17", 8, 6, "001111"},
		{"a5", 16, 8, "10100101"},
		{"A5", 16, 8, "10100101"},
		{"5", 10, 3, "101"},
		{"0", 10, 1, "0"},
		{"255", 10, 8, "11111111"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.text, tt.radix), func(t *testing.T) {
			v := mustParse(t, tt.text, tt.radix)
			assert.Equal(t, tt.width, v.Width())
			assert.Equal(t, tt.bin, v.String())
		})
	}
}

func TestParse_UnknownDigits(t *testing.T) {
	v := mustParse(t, "1xz0", 2)
	assert.Equal(t, Zero, v.Bit(0))
	assert.Equal(t, Z, v.Bit(1))
	assert.Equal(t, X, v.Bit(2))
	assert.Equal(t, One, v.Bit(3))

	h := mustParse(t, "Zf", 16)
	for i := 4; i < 8; i++ {
		assert.Equal(t, Z, h.Bit(i))
	}
	o := mustParse(t, "x", 8)
	assert.Equal(t, 3, o.CountUnknown())
	assert.Equal(t, X, o.Bit(2))
}

func TestParse_LargeDecimal(t *testing.T) {
	v := mustParse(t, "340282366920938463463374607431768211455", 10) // 2^128-1
	assert.Equal(t, 128, v.Width())
	assert.True(t, v.Equal(Filled(128, One)))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		text  string
		radix int
	}{
		{"", 2},
		{"102", 2},
		{"8", 8},
		{"fg", 16},
		{"1x", 10},
		{"z", 10},
		{"12a", 10},
		{"11", 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%d", tt.text, tt.radix), func(t *testing.T) {
			_, err := Parse(tt.text, tt.radix)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "error should wrap ErrFormat: %v", err)
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text  string
		radix int
		bin   string
	}{
		{"'hff", 16, "11111111"},
		{"'HfX", 16, "1111XXXX"},
		{"'b10z", 2, "10Z"},
		{"'o7", 8, "111"},
		{"'d6", 10, "110"},
		{"6", 10, "110"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, radix, err := ParseLiteral(tt.text, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.radix, radix)
			assert.Equal(t, tt.bin, v.String())
		})
	}

	for _, bad := range []string{"'", "'q12", "'dx", "'h"} {
		_, _, err := ParseLiteral(bad, 10)
		assert.ErrorIs(t, err, ErrFormat, "ParseLiteral(%q)", bad)
	}
}

func TestFormat_Digits(t *testing.T) {
	tests := []struct {
		bin   string
		radix int
		want  string
	}{
		{"10100101", 16, "a5"},
		{"1010zzzz", 16, "aZ"},
		{"1010zzz1", 16, "aX"},
		{"1010zzzx", 16, "aX"},
		{"101", 16, "5"},
		{"11111", 8, "37"},
		{"zz1zzz", 8, "XZ"},
		{"10100101", 10, "165"},
		{"1010010x", 10, "164"},
		{"zzzzzzzz", 10, "0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.bin, tt.radix), func(t *testing.T) {
			v := mustParse(t, tt.bin, 2)
			assert.Equal(t, tt.want, v.Format(tt.radix))
		})
	}
}

func TestFormat_PartialTopDigitZ(t *testing.T) {
	// 5 bits in hex: the top digit holds a single Z bit and still renders as Z.
	v := mustParse(t, "z0101", 2)
	assert.Equal(t, "Z5", v.Format(16))
}

func TestFormat_UnsupportedRadixPanics(t *testing.T) {
	assert.Panics(t, func() { New(4).Format(7) })
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		FromUint64(8, 0),
		FromUint64(8, 0xa5),
		FromUint64(12, 0xfff),
		FromUint64(24, 0x123456),
		FromUint64(64, 0xdeadbeefcafebabe),
		Filled(96, One),
	}
	for _, v := range values {
		for _, radix := range []int{2, 8, 10, 16} {
			t.Run(fmt.Sprintf("%s/%d", v.Format(16), radix), func(t *testing.T) {
				text := v.Format(radix)
				back := mustParse(t, text, radix)
				assert.Equal(t, 0, back.Compare(v), "bit pattern differs after round trip via %q", text)
				assert.True(t, back.Resize(v.Width()).Equal(v))
				if radix != 10 && v.Width()%bitsPerDigit(radix) == 0 {
					assert.True(t, back.Equal(v), "width-aligned round trip should be exact")
				}
			})
		}
	}
}

func TestRoundTrip_UnknownBits(t *testing.T) {
	for _, text := range []string{"x1z0", "zzzz", "xxxx0000"} {
		v := mustParse(t, text, 2)
		back := mustParse(t, v.Format(2), 2)
		assert.True(t, back.Equal(v), "binary round trip of %q", text)
	}
	h := mustParse(t, "aZ3X", 16)
	assert.True(t, mustParse(t, h.Format(16), 16).Equal(h))
}
