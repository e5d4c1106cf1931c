package simd

import (
	"fmt"
	"math/bits"
	"strings"
)

// Mask is a vector of boolean lanes. A true lane holds -1 (all bits set), a false lane 0.
type Mask[W Width] struct {
	lanes [MaxLanes]int32
}

// MaskFalse returns a mask with every lane cleared.
func MaskFalse[W Width]() Mask[W] {
	return Mask[W]{}
}

// MaskTrue returns a mask with every lane set.
func MaskTrue[W Width]() Mask[W] {
	var m Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		m.lanes[i] = -1
	}
	return m
}

// MaskOf builds a mask from one bool per lane. It panics unless exactly
// LanesOf[W]() values are given.
func MaskOf[W Width](values ...bool) Mask[W] {
	n := LanesOf[W]()
	if len(values) != n {
		panic(fmt.Sprintf("simd: MaskOf needs %d lanes, got %d", n, len(values)))
	}
	var m Mask[W]
	for i, b := range values {
		if b {
			m.lanes[i] = -1
		}
	}
	return m
}

// MaskFromBits sets lane i when bit i of bits is set. Bits at or beyond the
// lane count are a precondition violation and panic.
func MaskFromBits[W Width](b uint32) Mask[W] {
	n := LanesOf[W]()
	if b&^fullBits(n) != 0 {
		panic(fmt.Sprintf("simd: bit pattern %#x does not fit %d lanes", b, n))
	}
	var m Mask[W]
	for i := 0; i < n; i++ {
		if b&(1<<uint(i)) != 0 {
			m.lanes[i] = -1
		}
	}
	return m
}

// FirstLanes returns a mask with lanes [0, count) set. count is clamped to the width.
func FirstLanes[W Width](count int) Mask[W] {
	var m Mask[W]
	n := min(count, LanesOf[W]())
	for i := 0; i < n; i++ {
		m.lanes[i] = -1
	}
	return m
}

// Len returns the lane count.
func (m Mask[W]) Len() int { return LanesOf[W]() }

// Not inverts every lane.
func (m Mask[W]) Not() Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = ^m.lanes[i]
	}
	return r
}

// And returns m & o lane-wise.
func (m Mask[W]) And(o Mask[W]) Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = m.lanes[i] & o.lanes[i]
	}
	return r
}

// Or returns m | o lane-wise.
func (m Mask[W]) Or(o Mask[W]) Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = m.lanes[i] | o.lanes[i]
	}
	return r
}

// Xor returns m ^ o lane-wise.
func (m Mask[W]) Xor(o Mask[W]) Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = m.lanes[i] ^ o.lanes[i]
	}
	return r
}

// AndNot returns m & ^o lane-wise.
func (m Mask[W]) AndNot(o Mask[W]) Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = m.lanes[i] &^ o.lanes[i]
	}
	return r
}

// Eq sets the lanes where m and o agree.
func (m Mask[W]) Eq(o Mask[W]) Mask[W] {
	return m.Xor(o).Not()
}

// Ne sets the lanes where m and o differ.
func (m Mask[W]) Ne(o Mask[W]) Mask[W] {
	return m.Xor(o)
}

// SelectMask picks a where m is set and b elsewhere.
func SelectMask[W Width](m, a, b Mask[W]) Mask[W] {
	var r Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = (m.lanes[i] & a.lanes[i]) | (^m.lanes[i] & b.lanes[i])
	}
	return r
}

// Shuffle returns a mask whose lane i is lane idx[i] of m.
func (m Mask[W]) Shuffle(idx ...int) Mask[W] {
	n := LanesOf[W]()
	if len(idx) != n {
		panic(fmt.Sprintf("simd: Shuffle needs %d indices, got %d", n, len(idx)))
	}
	var r Mask[W]
	for i, j := range idx {
		checkLane(j, n)
		r.lanes[i] = m.lanes[j]
	}
	return r
}

// Broadcast copies lane i into every lane.
func (m Mask[W]) Broadcast(i int) Mask[W] {
	n := LanesOf[W]()
	checkLane(i, n)
	var r Mask[W]
	for j := 0; j < n; j++ {
		r.lanes[j] = m.lanes[i]
	}
	return r
}

// UnpackLo interleaves the low halves of a and b: a0 b0 a1 b1 ...
func UnpackLo[W Width](a, b Mask[W]) Mask[W] {
	n := LanesOf[W]()
	var r Mask[W]
	if n == 1 {
		r.lanes[0] = a.lanes[0]
		return r
	}
	for i := 0; i < n/2; i++ {
		r.lanes[2*i] = a.lanes[i]
		r.lanes[2*i+1] = b.lanes[i]
	}
	return r
}

// UnpackHi interleaves the high halves of a and b.
func UnpackHi[W Width](a, b Mask[W]) Mask[W] {
	n := LanesOf[W]()
	var r Mask[W]
	if n == 1 {
		r.lanes[0] = b.lanes[0]
		return r
	}
	h := n / 2
	for i := 0; i < h; i++ {
		r.lanes[2*i] = a.lanes[h+i]
		r.lanes[2*i+1] = b.lanes[h+i]
	}
	return r
}

// Bits packs the lanes into an integer, bit i for lane i (movemask).
func (m Mask[W]) Bits() uint32 {
	var b uint32
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if m.lanes[i] != 0 {
			b |= 1 << uint(i)
		}
	}
	return b
}

// All reports whether every lane is set.
func (m Mask[W]) All() bool { return m.Bits() == fullBits(LanesOf[W]()) }

// Any reports whether at least one lane is set.
func (m Mask[W]) Any() bool { return m.Bits() != 0 }

// None reports whether no lane is set.
func (m Mask[W]) None() bool { return m.Bits() == 0 }

// AllIn reports whether m is set in every lane of valid. Lanes outside valid are ignored.
func (m Mask[W]) AllIn(valid Mask[W]) bool {
	v := valid.Bits()
	return m.Bits()&v == v
}

// AnyIn reports whether m is set in some lane of valid.
func (m Mask[W]) AnyIn(valid Mask[W]) bool { return m.Bits()&valid.Bits() != 0 }

// NoneIn reports whether m is clear in every lane of valid.
func (m Mask[W]) NoneIn(valid Mask[W]) bool { return !m.AnyIn(valid) }

// PopCount returns the number of set lanes.
func (m Mask[W]) PopCount() int { return bits.OnesCount32(m.Bits()) }

// First returns the index of the lowest set lane, or -1.
func (m Mask[W]) First() int {
	b := m.Bits()
	if b == 0 {
		return -1
	}
	return bits.TrailingZeros32(b)
}

// Get reports whether lane i is set.
func (m Mask[W]) Get(i int) bool {
	checkLane(i, LanesOf[W]())
	return m.lanes[i] != 0
}

// Lane returns the raw bit pattern of lane i.
func (m Mask[W]) Lane(i int) int32 {
	checkLane(i, LanesOf[W]())
	return m.lanes[i]
}

// Set writes the all-ones pattern into lane i.
func (m *Mask[W]) Set(i int) {
	checkLane(i, LanesOf[W]())
	m.lanes[i] = -1
}

// Clear zeroes lane i.
func (m *Mask[W]) Clear(i int) {
	checkLane(i, LanesOf[W]())
	m.lanes[i] = 0
}

// SetTo sets or clears lane i.
func (m *Mask[W]) SetTo(i int, b bool) {
	if b {
		m.Set(i)
	} else {
		m.Clear(i)
	}
}

// String renders the mask as <1, 0, ...>, lane 0 first.
func (m Mask[W]) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.lanes[i] != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// ConcatMask joins two half-width masks into one of width D.
func ConcatMask[H, D Width](lo, hi Mask[H]) Mask[D] {
	h := mustDouble[H, D]()
	var r Mask[D]
	copy(r.lanes[:h], lo.lanes[:h])
	copy(r.lanes[h:2*h], hi.lanes[:h])
	return r
}

// SplitMask returns the low and high halves of a width-D mask.
func SplitMask[H, D Width](m Mask[D]) (lo, hi Mask[H]) {
	h := mustDouble[H, D]()
	copy(lo.lanes[:h], m.lanes[:h])
	copy(hi.lanes[:h], m.lanes[h:2*h])
	return lo, hi
}
