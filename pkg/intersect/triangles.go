package intersect

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/simd"
)

// TrianglesIntersector1 tests one ray against a batch of up to M triangles.
type TrianglesIntersector1[M simd.Width, C Culling] struct {
	kernel   Intersector1[M, C]
	flip     simd.Float[M]
	identity simd.Int[M]
}

// NewTrianglesIntersector1 validates M.
func NewTrianglesIntersector1[M simd.Width, C Culling]() (*TrianglesIntersector1[M, C], error) {
	kernel, err := NewIntersector1[M, C]()
	if err != nil {
		return nil, fmt.Errorf("triangles: %w", err)
	}
	return &TrianglesIntersector1[M, C]{
		kernel:   kernel,
		flip:     simd.SplatFloat[M](1),
		identity: simd.SplatInt[M](geometry.IdentityRotation),
	}, nil
}

func (ti *TrianglesIntersector1[M, C]) test(ray *core.Ray, tris *geometry.TrianglesM[M]) (simd.Mask[M], Candidate[M]) {
	return ti.kernel.test(tris.Active(), ray, tris.V0, tris.E1, tris.E2, tris.Ng, ti.flip, ti.identity)
}

// Intersect commits the closest accepted hit into ray.
func (ti *TrianglesIntersector1[M, C]) Intersect(ray *core.Ray, tris *geometry.TrianglesM[M], geoms Geometries) bool {
	valid, c := ti.test(ray, tris)
	if valid.None() {
		return false
	}
	return closestHit1(ray, valid, c, tris.GeomIDs, tris.PrimIDs, geoms)
}

// Occluded reports whether any triangle blocks ray.
func (ti *TrianglesIntersector1[M, C]) Occluded(ray *core.Ray, tris *geometry.TrianglesM[M], geoms Geometries) bool {
	valid, c := ti.test(ray, tris)
	if valid.None() {
		return false
	}
	return occluded1(ray, valid, c, tris.GeomIDs, tris.PrimIDs, geoms)
}

// TrianglesIntersectorK tests a packet of K rays against a batch of up to M
// triangles, one triangle at a time.
type TrianglesIntersectorK[M, K simd.Width, C Culling] struct {
	kernel IntersectorK[M, K, C]
	single *TrianglesIntersector1[M, C]
}

// NewTrianglesIntersectorK validates M and K.
func NewTrianglesIntersectorK[M, K simd.Width, C Culling]() (*TrianglesIntersectorK[M, K, C], error) {
	kernel, err := NewIntersectorK[M, K, C]()
	if err != nil {
		return nil, fmt.Errorf("triangles: %w", err)
	}
	single, err := NewTrianglesIntersector1[M, C]()
	if err != nil {
		return nil, err
	}
	return &TrianglesIntersectorK[M, K, C]{kernel: kernel, single: single}, nil
}

// Intersect commits, per active lane, the closest accepted hit and returns
// the lanes that found one.
func (ti *TrianglesIntersectorK[M, K, C]) Intersect(valid simd.Mask[K], rays *core.RayK[K],
	tris *geometry.TrianglesM[M], geoms Geometries) simd.Mask[K] {
	hit := simd.MaskFalse[K]()
	for i := 0; i < tris.Count(); i++ {
		m, c := ti.kernel.testK(valid, rays, tris.V0.Lane(i), tris.E1.Lane(i), tris.E2.Lane(i), tris.Ng.Lane(i),
			geometry.IdentityRotation, 1)
		if m.None() {
			continue
		}
		hit = hit.Or(closestHitK(rays, m, c, tris.GeomIDs.Get(i), tris.PrimIDs.Get(i), geoms))
	}
	return hit
}

// Occluded returns the active lanes blocked by any triangle. It stops once
// every active lane is blocked.
func (ti *TrianglesIntersectorK[M, K, C]) Occluded(valid simd.Mask[K], rays *core.RayK[K],
	tris *geometry.TrianglesM[M], geoms Geometries) simd.Mask[K] {
	pending := valid
	for i := 0; i < tris.Count() && pending.Any(); i++ {
		m, c := ti.kernel.testK(pending, rays, tris.V0.Lane(i), tris.E1.Lane(i), tris.E2.Lane(i), tris.Ng.Lane(i),
			geometry.IdentityRotation, 1)
		if m.None() {
			continue
		}
		pending = pending.AndNot(occludedK(rays, m, c, tris.GeomIDs.Get(i), tris.PrimIDs.Get(i), geoms))
	}
	return valid.AndNot(pending)
}

// Intersect1 tests lane k alone against the whole batch.
func (ti *TrianglesIntersectorK[M, K, C]) Intersect1(rays *core.RayK[K], k int,
	tris *geometry.TrianglesM[M], geoms Geometries) bool {
	ray := rays.Ray(k)
	if !ti.single.Intersect(&ray, tris, geoms) {
		return false
	}
	rays.CommitLane(k, ray.U, ray.V, ray.TFar, ray.Ng, ray.GeomID, ray.PrimID)
	return true
}

// Occluded1 reports whether lane k is blocked by any triangle of the batch.
func (ti *TrianglesIntersectorK[M, K, C]) Occluded1(rays *core.RayK[K], k int,
	tris *geometry.TrianglesM[M], geoms Geometries) bool {
	ray := rays.Ray(k)
	return ti.single.Occluded(&ray, tris, geoms)
}
