package intersect

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/simd"
)

// PairsIntersector1 tests one ray against M triangle pairs by flattening
// them into D = 2M lanes: the first M lanes hold the (v0,v1,v2) halves and
// the last M the (v0,v2,v3) halves.
type PairsIntersector1[M, D simd.Width, C Culling] struct {
	kernel Intersector1[D, C]
	flip   simd.Float[D]
}

// NewPairsIntersector1 fails unless D is exactly twice M.
func NewPairsIntersector1[M, D simd.Width, C Culling]() (*PairsIntersector1[M, D, C], error) {
	if err := simd.CheckDouble[M, D](); err != nil {
		return nil, fmt.Errorf("pairs: %w", err)
	}
	kernel, err := NewIntersector1[D, C]()
	if err != nil {
		return nil, fmt.Errorf("pairs: %w", err)
	}
	return &PairsIntersector1[M, D, C]{
		kernel: kernel,
		flip:   simd.ConcatFloat[M, D](simd.SplatFloat[M](-1), simd.SplatFloat[M](1)),
	}, nil
}

// MustPairsIntersector1 is NewPairsIntersector1 that panics on bad widths.
func MustPairsIntersector1[M, D simd.Width, C Culling]() *PairsIntersector1[M, D, C] {
	pi, err := NewPairsIntersector1[M, D, C]()
	if err != nil {
		panic(err)
	}
	return pi
}

// flattened holds a pair batch in the doubled kernel layout.
type flattened[D simd.Width] struct {
	valid            simd.Mask[D]
	v0, v1, v2       simd.Vec3[D]
	flags            simd.Int[D]
	geomIDs, primIDs simd.Int[D]
}

func flatten[M, D simd.Width](pairs *geometry.TrianglePairsM[M]) flattened[D] {
	active := pairs.Active()
	return flattened[D]{
		valid:   simd.ConcatMask[M, D](active, active),
		v0:      simd.ConcatVec3[M, D](pairs.V1, pairs.V3),
		v1:      simd.ConcatVec3[M, D](pairs.V0, pairs.V0),
		v2:      simd.ConcatVec3[M, D](pairs.V2, pairs.V2),
		flags:   simd.ConcatInt[M, D](pairs.Flags[0], pairs.Flags[1]),
		geomIDs: simd.ConcatInt[M, D](pairs.GeomIDs[0], pairs.GeomIDs[1]),
		primIDs: simd.ConcatInt[M, D](pairs.PrimIDs[0], pairs.PrimIDs[1]),
	}
}

func (pi *PairsIntersector1[M, D, C]) test(ray *core.Ray, f *flattened[D]) (simd.Mask[D], Candidate[D]) {
	e1, e2, ng := edges(f.v0, f.v1, f.v2)
	return pi.kernel.test(f.valid, ray, f.v0, e1, e2, ng, pi.flip, f.flags)
}

// Intersect commits the closest accepted hit over both halves of every pair.
func (pi *PairsIntersector1[M, D, C]) Intersect(ray *core.Ray, pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	f := flatten[M, D](pairs)
	valid, c := pi.test(ray, &f)
	if valid.None() {
		return false
	}
	return closestHit1(ray, valid, c, f.geomIDs, f.primIDs, geoms)
}

// Occluded reports whether either half of any pair blocks ray.
func (pi *PairsIntersector1[M, D, C]) Occluded(ray *core.Ray, pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	f := flatten[M, D](pairs)
	valid, c := pi.test(ray, &f)
	if valid.None() {
		return false
	}
	return occluded1(ray, valid, c, f.geomIDs, f.primIDs, geoms)
}

// PairsIntersector1Narrow tests the two halves of M pairs as two sequential
// M-wide calls. It is used when 2M lanes do not fit a vector.
type PairsIntersector1Narrow[M simd.Width, C Culling] struct {
	kernel Intersector1[M, C]
	flips  [2]simd.Float[M]
}

// NewPairsIntersector1Narrow validates M.
func NewPairsIntersector1Narrow[M simd.Width, C Culling]() (*PairsIntersector1Narrow[M, C], error) {
	kernel, err := NewIntersector1[M, C]()
	if err != nil {
		return nil, fmt.Errorf("pairs: %w", err)
	}
	return &PairsIntersector1Narrow[M, C]{
		kernel: kernel,
		flips:  [2]simd.Float[M]{simd.SplatFloat[M](-1), simd.SplatFloat[M](1)},
	}, nil
}

func (pi *PairsIntersector1Narrow[M, C]) test(h int, ray *core.Ray, pairs *geometry.TrianglePairsM[M]) (simd.Mask[M], Candidate[M]) {
	v0 := pairs.V1
	if h == 1 {
		v0 = pairs.V3
	}
	e1, e2, ng := edges(v0, pairs.V0, pairs.V2)
	return pi.kernel.test(pairs.Active(), ray, v0, e1, e2, ng, pi.flips[h], pairs.Flags[h])
}

// Intersect commits the closest accepted hit over both halves of every pair.
func (pi *PairsIntersector1Narrow[M, C]) Intersect(ray *core.Ray, pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	hit := false
	for h := 0; h < 2; h++ {
		valid, c := pi.test(h, ray, pairs)
		if valid.None() {
			continue
		}
		if closestHit1(ray, valid, c, pairs.GeomIDs[h], pairs.PrimIDs[h], geoms) {
			hit = true
		}
	}
	return hit
}

// Occluded reports whether either half of any pair blocks ray, skipping the
// second half when the first already does.
func (pi *PairsIntersector1Narrow[M, C]) Occluded(ray *core.Ray, pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	for h := 0; h < 2; h++ {
		valid, c := pi.test(h, ray, pairs)
		if valid.None() {
			continue
		}
		if occluded1(ray, valid, c, pairs.GeomIDs[h], pairs.PrimIDs[h], geoms) {
			return true
		}
	}
	return false
}

// PairsIntersectorK tests a packet of K rays against M triangle pairs, one
// half at a time.
type PairsIntersectorK[M, D, K simd.Width, C Culling] struct {
	kernel IntersectorK[M, K, C]
	single *PairsIntersector1[M, D, C]
}

// NewPairsIntersectorK fails unless D is exactly twice M and K is supported.
func NewPairsIntersectorK[M, D, K simd.Width, C Culling]() (*PairsIntersectorK[M, D, K, C], error) {
	kernel, err := NewIntersectorK[M, K, C]()
	if err != nil {
		return nil, fmt.Errorf("pairs: %w", err)
	}
	single, err := NewPairsIntersector1[M, D, C]()
	if err != nil {
		return nil, err
	}
	return &PairsIntersectorK[M, D, K, C]{kernel: kernel, single: single}, nil
}

func (pi *PairsIntersectorK[M, D, K, C]) testHalf(valid simd.Mask[K], rays *core.RayK[K],
	p geometry.TrianglePair, h int) (simd.Mask[K], Candidate[K]) {
	v0, v1, v2, flip := p.KernelVertices(h)
	e1 := v0.Sub(v1)
	e2 := v2.Sub(v0)
	return pi.kernel.testK(valid, rays, v0, e1, e2, e1.Cross(e2), p.Flags[h], flip)
}

// Intersect commits, per active lane, the closest accepted hit over both
// halves of every pair and returns the lanes that found one.
func (pi *PairsIntersectorK[M, D, K, C]) Intersect(valid simd.Mask[K], rays *core.RayK[K],
	pairs *geometry.TrianglePairsM[M], geoms Geometries) simd.Mask[K] {
	hit := simd.MaskFalse[K]()
	for i := 0; i < pairs.Count(); i++ {
		p := pairs.Pair(i)
		for h := 0; h < 2; h++ {
			m, c := pi.testHalf(valid, rays, p, h)
			if m.None() {
				continue
			}
			hit = hit.Or(closestHitK(rays, m, c, p.GeomIDs[h], p.PrimIDs[h], geoms))
		}
	}
	return hit
}

// Occluded returns the active lanes blocked by either half of any pair. The
// second half of a pair is skipped once every lane is blocked.
func (pi *PairsIntersectorK[M, D, K, C]) Occluded(valid simd.Mask[K], rays *core.RayK[K],
	pairs *geometry.TrianglePairsM[M], geoms Geometries) simd.Mask[K] {
	pending := valid
	for i := 0; i < pairs.Count() && pending.Any(); i++ {
		p := pairs.Pair(i)
		for h := 0; h < 2 && pending.Any(); h++ {
			m, c := pi.testHalf(pending, rays, p, h)
			if m.None() {
				continue
			}
			pending = pending.AndNot(occludedK(rays, m, c, p.GeomIDs[h], p.PrimIDs[h], geoms))
		}
	}
	return valid.AndNot(pending)
}

// Intersect1 tests lane k alone against the whole batch.
func (pi *PairsIntersectorK[M, D, K, C]) Intersect1(rays *core.RayK[K], k int,
	pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	ray := rays.Ray(k)
	if !pi.single.Intersect(&ray, pairs, geoms) {
		return false
	}
	rays.CommitLane(k, ray.U, ray.V, ray.TFar, ray.Ng, ray.GeomID, ray.PrimID)
	return true
}

// Occluded1 reports whether lane k is blocked by any pair of the batch.
func (pi *PairsIntersectorK[M, D, K, C]) Occluded1(rays *core.RayK[K], k int,
	pairs *geometry.TrianglePairsM[M], geoms Geometries) bool {
	ray := rays.Ray(k)
	return pi.single.Occluded(&ray, pairs, geoms)
}
