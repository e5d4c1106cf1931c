package intersect

import (
	"math/bits"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/simd"
)

// Candidate holds the pre-division results of a kernel call for every lane
// that survived the rejection cascade. It is a plain value; nothing is
// divided until Materialize is called.
type Candidate[W simd.Width] struct {
	absDen simd.Float[W]
	u, v   simd.Float[W] // scaled by absDen
	t      simd.Float[W] // scaled by absDen
	ng     simd.Vec3[W]
	flip   simd.Float[W]
	flags  simd.Int[W]
}

// Hit is the materialized hit data of a kernel call. Only lanes of the mask
// passed to Materialize are filled; the rest are zero.
type Hit[W simd.Width] struct {
	U, V  simd.Float[W] // rotated barycentrics
	T     simd.Float[W]
	Ng    simd.Vec3[W] // flip applied
	Flags simd.Int[W]
}

// Materialize divides out the denominator, applies the rotation words and
// orients the normals, for the lanes of valid only.
func (c Candidate[W]) Materialize(valid simd.Mask[W]) Hit[W] {
	h := Hit[W]{Flags: c.flags, Ng: simd.SelectVec3(valid, c.ng.Scale(c.flip), simd.Vec3[W]{})}
	for b := valid.Bits(); b != 0; b &= b - 1 {
		i := bits.TrailingZeros32(b)
		rcp := 1 / c.absDen.Get(i)
		u, v := geometry.Rotate(c.flags.Get(i), c.u.Get(i)*rcp, c.v.Get(i)*rcp)
		h.U.Set(i, u)
		h.V.Set(i, v)
		h.T.Set(i, c.t.Get(i)*rcp)
	}
	return h
}

// MaterializeLane is Materialize for a single lane.
func (c Candidate[W]) MaterializeLane(i int) (u, v, t float32) {
	rcp := 1 / c.absDen.Get(i)
	u, v = geometry.Rotate(c.flags.Get(i), c.u.Get(i)*rcp, c.v.Get(i)*rcp)
	return u, v, c.t.Get(i) * rcp
}

// Record detaches lane i as a hit record along ray.
func (h *Hit[W]) Record(i int, ray *core.Ray, geomID, primID int32) core.HitRecord {
	t := h.T.Get(i)
	return core.HitRecord{
		T:      t,
		Point:  ray.At(t),
		Ng:     h.Ng.Lane(i),
		U:      h.U.Get(i),
		V:      h.V.Get(i),
		GeomID: geomID,
		PrimID: primID,
	}
}
