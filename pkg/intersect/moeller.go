package intersect

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

// Intersector1 tests one ray against M triangles at once.
type Intersector1[M simd.Width, C Culling] struct{}

// NewIntersector1 validates the lane width M.
func NewIntersector1[M simd.Width, C Culling]() (Intersector1[M, C], error) {
	if err := simd.CheckWidth[M](); err != nil {
		return Intersector1[M, C]{}, fmt.Errorf("intersector1: %w", err)
	}
	return Intersector1[M, C]{}, nil
}

// MustIntersector1 is NewIntersector1 that panics on an unsupported width.
func MustIntersector1[M simd.Width, C Culling]() Intersector1[M, C] {
	k, err := NewIntersector1[M, C]()
	if err != nil {
		panic(err)
	}
	return k
}

// test runs the rejection cascade and returns the surviving lanes.
func (Intersector1[M, C]) test(valid0 simd.Mask[M], ray *core.Ray, v0, e1, e2, ng simd.Vec3[M],
	flip simd.Float[M], flags simd.Int[M]) (simd.Mask[M], Candidate[M]) {
	var zero simd.Float[M]
	if valid0.None() {
		return valid0, Candidate[M]{}
	}

	o := simd.SplatVec3[M](ray.Origin)
	d := simd.SplatVec3[M](ray.Direction)
	c := v0.Sub(o)
	r := d.Cross(c)
	den := ng.Dot(d)
	absDen := den.Abs()
	sgn := den.SignMask()

	valid := valid0
	if culls[C]() {
		valid = valid.And(den.XorSign(flip.SignMask()).Gt(zero))
	} else {
		valid = valid.And(den.Ne(zero))
	}
	if valid.None() {
		return valid, Candidate[M]{}
	}

	u := r.Dot(e2).XorSign(sgn)
	v := r.Dot(e1).XorSign(sgn)
	valid = valid.And(u.Ge(zero)).And(v.Ge(zero)).And(u.Add(v).Le(absDen))
	if valid.None() {
		return valid, Candidate[M]{}
	}

	t := ng.Dot(c).XorSign(sgn)
	tnear := simd.SplatFloat[M](ray.TNear)
	tfar := simd.SplatFloat[M](ray.TFar)
	valid = valid.And(absDen.Mul(tnear).Lt(t)).And(t.Lt(absDen.Mul(tfar)))
	if valid.None() {
		return valid, Candidate[M]{}
	}
	return valid, Candidate[M]{absDen: absDen, u: u, v: v, t: t, ng: ng, flip: flip, flags: flags}
}

// IntersectEdges tests ray against triangles in edge form and hands the
// surviving lanes to epilog. It returns the epilog's verdict, or false when
// no lane survived.
func (k Intersector1[M, C]) IntersectEdges(valid0 simd.Mask[M], ray *core.Ray, v0, e1, e2, ng simd.Vec3[M],
	flip simd.Float[M], flags simd.Int[M], epilog Epilog[M]) bool {
	valid, c := k.test(valid0, ray, v0, e1, e2, ng, flip, flags)
	if valid.None() {
		return false
	}
	return epilog.Accept(valid, c)
}

// Intersect derives the edge form of (v0, v1, v2) and calls IntersectEdges.
func (k Intersector1[M, C]) Intersect(valid0 simd.Mask[M], ray *core.Ray, v0, v1, v2 simd.Vec3[M],
	flip simd.Float[M], flags simd.Int[M], epilog Epilog[M]) bool {
	e1, e2, ng := edges(v0, v1, v2)
	return k.IntersectEdges(valid0, ray, v0, e1, e2, ng, flip, flags, epilog)
}

func edges[W simd.Width](v0, v1, v2 simd.Vec3[W]) (e1, e2, ng simd.Vec3[W]) {
	e1 = v0.Sub(v1)
	e2 = v2.Sub(v0)
	return e1, e2, e1.Cross(e2)
}

// IntersectorK tests a packet of K rays against one triangle broadcast to
// every lane. M is the batch width used when a single packet lane is tested
// against a whole batch.
type IntersectorK[M, K simd.Width, C Culling] struct {
	single Intersector1[M, C]
}

// NewIntersectorK validates the lane widths M and K.
func NewIntersectorK[M, K simd.Width, C Culling]() (IntersectorK[M, K, C], error) {
	if err := simd.CheckWidth[M](); err != nil {
		return IntersectorK[M, K, C]{}, fmt.Errorf("intersectorK: %w", err)
	}
	if err := simd.CheckWidth[K](); err != nil {
		return IntersectorK[M, K, C]{}, fmt.Errorf("intersectorK: %w", err)
	}
	return IntersectorK[M, K, C]{}, nil
}

// MustIntersectorK is NewIntersectorK that panics on an unsupported width.
func MustIntersectorK[M, K simd.Width, C Culling]() IntersectorK[M, K, C] {
	k, err := NewIntersectorK[M, K, C]()
	if err != nil {
		panic(err)
	}
	return k
}

// testK applies the edge tests one at a time, then depth, then the
// backface policy.
func (IntersectorK[M, K, C]) testK(valid0 simd.Mask[K], rays *core.RayK[K], v0, e1, e2, ng mgl32.Vec3,
	flags int32, flip float32) (simd.Mask[K], Candidate[K]) {
	var zero simd.Float[K]
	if valid0.None() {
		return valid0, Candidate[K]{}
	}

	c := simd.SplatVec3[K](v0).Sub(rays.Origin)
	r := rays.Direction.Cross(c)
	ngK := simd.SplatVec3[K](ng)
	den := ngK.Dot(rays.Direction)
	absDen := den.Abs()
	sgn := den.SignMask()

	u := r.Dot(simd.SplatVec3[K](e2)).XorSign(sgn)
	valid := valid0.And(u.Ge(zero))
	if valid.None() {
		return valid, Candidate[K]{}
	}
	v := r.Dot(simd.SplatVec3[K](e1)).XorSign(sgn)
	valid = valid.And(v.Ge(zero))
	if valid.None() {
		return valid, Candidate[K]{}
	}
	w := absDen.Sub(u).Sub(v)
	valid = valid.And(w.Ge(zero))
	if valid.None() {
		return valid, Candidate[K]{}
	}

	t := ngK.Dot(c).XorSign(sgn)
	valid = valid.And(absDen.Mul(rays.TNear).Lt(t)).And(t.Lt(absDen.Mul(rays.TFar)))
	if valid.None() {
		return valid, Candidate[K]{}
	}

	flipK := simd.SplatFloat[K](flip)
	if culls[C]() {
		valid = valid.And(den.XorSign(flipK.SignMask()).Gt(zero))
	} else {
		valid = valid.And(den.Ne(zero))
	}
	if valid.None() {
		return valid, Candidate[K]{}
	}
	return valid, Candidate[K]{
		absDen: absDen, u: u, v: v, t: t, ng: ngK,
		flip: flipK, flags: simd.SplatInt[K](flags),
	}
}

// IntersectK tests every active ray of the packet against one triangle in
// edge form and returns the lanes the epilog accepted.
func (k IntersectorK[M, K, C]) IntersectK(valid0 simd.Mask[K], rays *core.RayK[K], v0, e1, e2, ng mgl32.Vec3,
	flags int32, flip float32, epilog EpilogK[K]) simd.Mask[K] {
	valid, c := k.testK(valid0, rays, v0, e1, e2, ng, flags, flip)
	if valid.None() {
		return valid
	}
	return epilog.AcceptK(valid, c)
}

// IntersectTriangleK derives the edge form of (v0, v1, v2) and calls IntersectK.
func (k IntersectorK[M, K, C]) IntersectTriangleK(valid0 simd.Mask[K], rays *core.RayK[K], v0, v1, v2 mgl32.Vec3,
	flags int32, flip float32, epilog EpilogK[K]) simd.Mask[K] {
	e1 := v0.Sub(v1)
	e2 := v2.Sub(v0)
	return k.IntersectK(valid0, rays, v0, e1, e2, e1.Cross(e2), flags, flip, epilog)
}

// Intersect1 tests lane k of the packet against M triangles. The epilog
// receives candidates computed from a copy of that lane and is responsible
// for committing back into rays.
func (k IntersectorK[M, K, C]) Intersect1(valid0 simd.Mask[M], rays *core.RayK[K], lane int, v0, e1, e2, ng simd.Vec3[M],
	flip simd.Float[M], flags simd.Int[M], epilog Epilog[M]) bool {
	ray := rays.Ray(lane)
	return k.single.IntersectEdges(valid0, &ray, v0, e1, e2, ng, flip, flags, epilog)
}
