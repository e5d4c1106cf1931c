package simd

import "fmt"

// Int is a vector of int32 lanes.
type Int[W Width] struct {
	lanes [MaxLanes]int32
}

// SplatInt broadcasts x to every lane.
func SplatInt[W Width](x int32) Int[W] {
	var v Int[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		v.lanes[i] = x
	}
	return v
}

// IntOf builds a vector from one value per lane.
func IntOf[W Width](values ...int32) Int[W] {
	n := LanesOf[W]()
	if len(values) != n {
		panic(fmt.Sprintf("simd: IntOf needs %d lanes, got %d", n, len(values)))
	}
	var v Int[W]
	copy(v.lanes[:n], values)
	return v
}

// Get returns lane i.
func (v Int[W]) Get(i int) int32 {
	checkLane(i, LanesOf[W]())
	return v.lanes[i]
}

// Set writes lane i.
func (v *Int[W]) Set(i int, x int32) {
	checkLane(i, LanesOf[W]())
	v.lanes[i] = x
}

// Add returns the lane-wise sum, wrapping at 32 bits.
func (v Int[W]) Add(o Int[W]) Int[W] {
	var r Int[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = v.lanes[i] + o.lanes[i]
	}
	return r
}

// And returns the lane-wise bitwise and.
func (v Int[W]) And(o Int[W]) Int[W] {
	var r Int[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = v.lanes[i] & o.lanes[i]
	}
	return r
}

// Shr is a logical right shift of every lane.
func (v Int[W]) Shr(s uint) Int[W] {
	var r Int[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		r.lanes[i] = int32(uint32(v.lanes[i]) >> s)
	}
	return r
}

// Eq sets the lanes where v == o.
func (v Int[W]) Eq(o Int[W]) Mask[W] {
	var m Mask[W]
	n := LanesOf[W]()
	for i := 0; i < n; i++ {
		if v.lanes[i] == o.lanes[i] {
			m.lanes[i] = -1
		}
	}
	return m
}

// Ne sets the lanes where v != o.
func (v Int[W]) Ne(o Int[W]) Mask[W] { return v.Eq(o).Not() }

// SelectInt picks a where m is set and b elsewhere.
func SelectInt[W Width](m Mask[W], a, b Int[W]) Int[W] {
	var r Int[W]
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

// ConcatInt joins two half-width vectors into one of width D.
func ConcatInt[H, D Width](lo, hi Int[H]) Int[D] {
	h := mustDouble[H, D]()
	var r Int[D]
	copy(r.lanes[:h], lo.lanes[:h])
	copy(r.lanes[h:2*h], hi.lanes[:h])
	return r
}
