package simd

import (
	"fmt"
	"math"
)

// Float is a vector of float32 lanes.
type Float[W Width] struct {
	lanes [MaxLanes]float32
}

// SplatFloat broadcasts x to every lane.
func SplatFloat[W Width](x float32) Float[W] {
	var f Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		f.lanes[i] = x
	}
	return f
}

// FloatOf builds a vector from one value per lane.
func FloatOf[W Width](values ...float32) Float[W] {
	n := LanesOf[W]()
	if len(values) != n {
		panic(fmt.Sprintf("simd: FloatOf needs %d lanes, got %d", n, len(values)))
	}
	var f Float[W]
	copy(f.lanes[:n], values)
	return f
}

// Get returns lane i.
func (f Float[W]) Get(i int) float32 {
	checkLane(i, LanesOf[W]())
	return f.lanes[i]
}

// Set writes lane i.
func (f *Float[W]) Set(i int, x float32) {
	checkLane(i, LanesOf[W]())
	f.lanes[i] = x
}

// Add returns the lane-wise sum.
func (f Float[W]) Add(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = f.lanes[i] + o.lanes[i]
	}
	return r
}

// Sub returns the lane-wise difference.
func (f Float[W]) Sub(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = f.lanes[i] - o.lanes[i]
	}
	return r
}

// Mul returns the lane-wise product.
func (f Float[W]) Mul(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = f.lanes[i] * o.lanes[i]
	}
	return r
}

// Div returns the lane-wise quotient.
func (f Float[W]) Div(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = f.lanes[i] / o.lanes[i]
	}
	return r
}

// Neg negates every lane.
func (f Float[W]) Neg() Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = -f.lanes[i]
	}
	return r
}

// Abs clears the sign bit of every lane.
func (f Float[W]) Abs() Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = math.Float32frombits(math.Float32bits(f.lanes[i]) &^ signBit)
	}
	return r
}

// Rcp returns 1/x per lane.
func (f Float[W]) Rcp() Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = 1 / f.lanes[i]
	}
	return r
}

// Min returns the lane-wise minimum.
func (f Float[W]) Min(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = min(f.lanes[i], o.lanes[i])
	}
	return r
}

// Max returns the lane-wise maximum.
func (f Float[W]) Max(o Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = max(f.lanes[i], o.lanes[i])
	}
	return r
}

// Clamp limits every lane to [lo, hi].
func (f Float[W]) Clamp(lo, hi float32) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = min(max(f.lanes[i], lo), hi)
	}
	return r
}

const signBit = uint32(1) << 31

// SignMask keeps only the sign bit of each lane (+0 or -0).
func (f Float[W]) SignMask() Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = math.Float32frombits(math.Float32bits(f.lanes[i]) & signBit)
	}
	return r
}

// XorSign xors the bit patterns of f and s. With s from SignMask this flips
// the sign of f wherever s is negative.
func (f Float[W]) XorSign(s Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = math.Float32frombits(math.Float32bits(f.lanes[i]) ^ math.Float32bits(s.lanes[i]))
	}
	return r
}

func (f Float[W]) cmp(o Float[W], pred func(a, b float32) bool) Mask[W] {
	var m Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if pred(f.lanes[i], o.lanes[i]) {
			m.lanes[i] = -1
		}
	}
	return m
}

// Lt sets the lanes where f < o.
func (f Float[W]) Lt(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a < b }) }
// Le sets the lanes where f <= o.
func (f Float[W]) Le(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a <= b }) }
// Gt sets the lanes where f > o.
func (f Float[W]) Gt(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a > b }) }
// Ge sets the lanes where f >= o.
func (f Float[W]) Ge(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a >= b }) }
// Eq sets the lanes where f == o.
func (f Float[W]) Eq(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a == b }) }
// Ne sets the lanes where f != o; NaN lanes are set.
func (f Float[W]) Ne(o Float[W]) Mask[W] { return f.cmp(o, func(a, b float32) bool { return a != b }) }

// Select picks a where m is set and b elsewhere.
func Select[W Width](m Mask[W], a, b Float[W]) Float[W] {
	var r Float[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if m.lanes[i] != 0 {
			r.lanes[i] = a.lanes[i]
		} else {
			r.lanes[i] = b.lanes[i]
		}
	}
	return r
}

// SelectMin returns the index of the smallest lane among valid, or -1 when
// valid is empty. Ties go to the lowest index.
func (f Float[W]) SelectMin(valid Mask[W]) int {
	best := -1
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if valid.lanes[i] == 0 {
			continue
		}
		if best < 0 || f.lanes[i] < f.lanes[best] {
			best = i
		}
	}
	return best
}

// ReduceMin returns the smallest lane among valid, or +Inf.
func (f Float[W]) ReduceMin(valid Mask[W]) float32 {
	if i := f.SelectMin(valid); i >= 0 {
		return f.lanes[i]
	}
	return float32(math.Inf(1))
}

// ConcatFloat joins two half-width vectors into one of width D.
func ConcatFloat[H, D Width](lo, hi Float[H]) Float[D] {
	h := mustDouble[H, D]()
	var r Float[D]
	copy(r.lanes[:h], lo.lanes[:h])
	copy(r.lanes[h:2*h], hi.lanes[:h])
	return r
}
