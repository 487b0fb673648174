package logic

import (
	"fmt"
	"math/bits"
	"slices"
)

// Bit is a single four-valued logic level.
type Bit uint8

const (
	Zero Bit = iota
	One
	X
	Z
)

func (b Bit) String() string {
	switch b {
	case Zero:
		return "0"
	case One:
		return "1"
	case X:
		return "X"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Bit(%d)", uint8(b))
	}
}

// Value is a fixed-width vector of four-valued bits.
//
// The zero Value has width 0. Copying a Value shares its storage; Clone
// duplicates it.
type Value struct {
	width   int
	bits    []uint64
	unknown []uint64
}

// wordsFor returns the number of 64-bit words needed to hold width bits.
func wordsFor(width int) int {
	return (width + 63) / 64
}

// tailMask returns the mask of valid bits in the last word for width.
func tailMask(width int) uint64 {
	r := width % 64
	if r == 0 {
		return ^uint64(0)
	}
	return (uint64(1) << r) - 1
}

// New returns an all-zero Value of the given width.
// Panics if width is negative.
func New(width int) Value {
	if width < 0 {
		panic(fmt.Sprintf("logic: negative width %d", width))
	}
	n := wordsFor(width)
	return Value{
		width:   width,
		bits:    make([]uint64, n),
		unknown: make([]uint64, n),
	}
}

// Filled returns a Value of the given width with every bit set to b.
func Filled(width int, b Bit) Value {
	v := New(width)
	if width == 0 {
		return v
	}
	var fillBits, fillUnknown uint64
	switch b {
	case One:
		fillBits = ^uint64(0)
	case X:
		fillBits, fillUnknown = ^uint64(0), ^uint64(0)
	case Z:
		fillUnknown = ^uint64(0)
	}
	for i := range v.bits {
		v.bits[i] = fillBits
		v.unknown[i] = fillUnknown
	}
	v.maskTail()
	return v
}

// FromUint64 returns a Value of the given width holding the low bits of x.
func FromUint64(width int, x uint64) Value {
	v := New(width)
	if width == 0 {
		return v
	}
	v.bits[0] = x
	v.maskTail()
	return v
}

// FromWords builds a Value directly from packed words. The slices are
// copied; bits beyond width are cleared.
func FromWords(width int, payload, unknown []uint64) Value {
	v := New(width)
	copy(v.bits, payload)
	copy(v.unknown, unknown)
	v.maskTail()
	return v
}

func (v *Value) maskTail() {
	n := len(v.bits)
	if n == 0 {
		return
	}
	m := tailMask(v.width)
	v.bits[n-1] &= m
	v.unknown[n-1] &= m
}

// Width returns the number of bits in the vector.
func (v Value) Width() int {
	return v.width
}

// Words returns the packed payload and unknown words. The returned slices
// alias the Value's storage and must not be modified.
func (v Value) Words() (payload, unknown []uint64) {
	return v.bits, v.unknown
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return Value{
		width:   v.width,
		bits:    slices.Clone(v.bits),
		unknown: slices.Clone(v.unknown),
	}
}

func (v Value) checkIndex(i int) {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("logic: bit index %d out of range [0,%d)", i, v.width))
	}
}

// Bit returns the level of bit i. Panics if i is out of range.
func (v Value) Bit(i int) Bit {
	v.checkIndex(i)
	w, m := i/64, uint64(1)<<(i%64)
	b := v.bits[w]&m != 0
	if v.unknown[w]&m == 0 {
		if b {
			return One
		}
		return Zero
	}
	if b {
		return X
	}
	return Z
}

// SetBit sets bit i to b. Panics if i is out of range.
func (v *Value) SetBit(i int, b Bit) {
	v.checkIndex(i)
	w, m := i/64, uint64(1)<<(i%64)
	switch b {
	case Zero:
		v.bits[w] &^= m
		v.unknown[w] &^= m
	case One:
		v.bits[w] |= m
		v.unknown[w] &^= m
	case X:
		v.bits[w] |= m
		v.unknown[w] |= m
	case Z:
		v.bits[w] &^= m
		v.unknown[w] |= m
	default:
		panic(fmt.Sprintf("logic: invalid bit level %d", uint8(b)))
	}
}

// IsUnknown reports whether any bit is X or Z.
func (v Value) IsUnknown() bool {
	for _, u := range v.unknown {
		if u != 0 {
			return true
		}
	}
	return false
}

// IsAllZ reports whether every bit is Z. A zero-width value is not all-Z.
func (v Value) IsAllZ() bool {
	if v.width == 0 {
		return false
	}
	last := len(v.bits) - 1
	for i := range v.bits {
		want := ^uint64(0)
		if i == last {
			want = tailMask(v.width)
		}
		if v.unknown[i] != want || v.bits[i] != 0 {
			return false
		}
	}
	return true
}

// CountUnknown returns the number of X or Z bits.
func (v Value) CountUnknown() int {
	n := 0
	for _, u := range v.unknown {
		n += bits.OnesCount64(u)
	}
	return n
}

// Equal reports whether v and o have the same width and identical bits,
// distinguishing X from Z. Use Compare for wildcard equality.
func (v Value) Equal(o Value) bool {
	return v.width == o.width &&
		slices.Equal(v.bits, o.bits) &&
		slices.Equal(v.unknown, o.unknown)
}

// Resize returns a copy of v with the given width. Wider results are
// zero-extended; narrower results keep the low-order bits.
func (v Value) Resize(width int) Value {
	r := New(width)
	copy(r.bits, v.bits)
	copy(r.unknown, v.unknown)
	r.maskTail()
	return r
}

// Slice extracts bits [low, high] (inclusive) as a new Value of width
// high-low+1.
func (v Value) Slice(low, high int) (Value, error) {
	if low < 0 || high < low || high >= v.width {
		return Value{}, fmt.Errorf("invalid slice [%d:%d] of %d-bit value", high, low, v.width)
	}
	r := New(high - low + 1)
	for i := range r.bits {
		r.bits[i] = v.wordAt(low + i*64)
		r.unknown[i] = v.unknownAt(low + i*64)
	}
	r.maskTail()
	return r, nil
}

// wordAt returns 64 payload bits starting at bit offset off.
func (v Value) wordAt(off int) uint64 {
	return extract(v.bits, off)
}

func (v Value) unknownAt(off int) uint64 {
	return extract(v.unknown, off)
}

func extract(words []uint64, off int) uint64 {
	w, s := off/64, uint(off%64)
	if w >= len(words) {
		return 0
	}
	x := words[w] >> s
	if s != 0 && w+1 < len(words) {
		x |= words[w+1] << (64 - s)
	}
	return x
}

// Uint64 returns the low 64 bits as an unsigned integer, reading X and Z
// bits as 0.
func (v Value) Uint64() uint64 {
	if len(v.bits) == 0 {
		return 0
	}
	return v.bits[0] &^ v.unknown[0]
}
