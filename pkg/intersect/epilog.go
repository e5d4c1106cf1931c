package intersect

import (
	"math/bits"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/simd"
)

// Epilog decides final acceptance for a single-ray kernel call. valid holds
// the lanes that passed every rejection test; Accept reports whether any lane
// was committed.
type Epilog[W simd.Width] interface {
	Accept(valid simd.Mask[W], c Candidate[W]) bool
}

// EpilogK decides final acceptance for a packet kernel call and returns the
// accepted lanes.
type EpilogK[K simd.Width] interface {
	AcceptK(valid simd.Mask[K], c Candidate[K]) simd.Mask[K]
}

// EpilogFunc adapts a function to Epilog.
type EpilogFunc[W simd.Width] func(valid simd.Mask[W], c Candidate[W]) bool

// Accept calls f.
func (f EpilogFunc[W]) Accept(valid simd.Mask[W], c Candidate[W]) bool { return f(valid, c) }

// EpilogKFunc adapts a function to EpilogK.
type EpilogKFunc[K simd.Width] func(valid simd.Mask[K], c Candidate[K]) simd.Mask[K]

// AcceptK calls f.
func (f EpilogKFunc[K]) AcceptK(valid simd.Mask[K], c Candidate[K]) simd.Mask[K] { return f(valid, c) }

// FilterFunc is consulted for every candidate hit on a geometry that has one.
// It returns false to reject the hit, in which case the next candidate is tried.
type FilterFunc func(ray *core.Ray, hit core.HitRecord) bool

// Geometries resolves the per-geometry acceptance state of a scene.
type Geometries interface {
	// Mask returns the visibility mask; a ray whose Mask shares no bit with it ignores the geometry.
	Mask(geomID int32) uint32
	// Filter returns the geometry's filter, or nil.
	Filter(geomID int32) FilterFunc
}

// visible reports whether ray can see geomID at all.
func visible(geoms Geometries, ray *core.Ray, geomID int32) bool {
	return geoms == nil || geoms.Mask(geomID)&ray.Mask != 0
}

func filterOf(geoms Geometries, geomID int32) FilterFunc {
	if geoms == nil {
		return nil
	}
	return geoms.Filter(geomID)
}

// closestHit1 commits the nearest accepted lane into ray. Lanes rejected by
// the geometry mask or filter fall through to the next nearest.
func closestHit1[W simd.Width](ray *core.Ray, valid simd.Mask[W], c Candidate[W],
	geomIDs, primIDs simd.Int[W], geoms Geometries) bool {
	hit := c.Materialize(valid)
	for valid.Any() {
		i := hit.T.SelectMin(valid)
		geomID := geomIDs.Get(i)
		if visible(geoms, ray, geomID) {
			rec := hit.Record(i, ray, geomID, primIDs.Get(i))
			if f := filterOf(geoms, geomID); f == nil || f(ray, rec) {
				ray.U, ray.V = rec.U, rec.V
				ray.TFar = rec.T
				ray.Ng = rec.Ng
				ray.GeomID = geomID
				ray.PrimID = rec.PrimID
				return true
			}
		}
		valid.Clear(i)
	}
	return false
}

// occluded1 reports whether any lane is accepted. The ray is not modified and
// hit data is only computed for lanes whose geometry has a filter.
func occluded1[W simd.Width](ray *core.Ray, valid simd.Mask[W], c Candidate[W],
	geomIDs, primIDs simd.Int[W], geoms Geometries) bool {
	if geoms == nil {
		return valid.Any()
	}
	for b := valid.Bits(); b != 0; b &= b - 1 {
		i := bits.TrailingZeros32(b)
		geomID := geomIDs.Get(i)
		if !visible(geoms, ray, geomID) {
			continue
		}
		f := geoms.Filter(geomID)
		if f == nil {
			return true
		}
		u, v, t := c.MaterializeLane(i)
		rec := core.HitRecord{
			T: t, Point: ray.At(t), Ng: c.ng.Lane(i).Mul(c.flip.Get(i)),
			U: u, V: v, GeomID: geomID, PrimID: primIDs.Get(i),
		}
		if f(ray, rec) {
			return true
		}
	}
	return false
}

// closestHitK commits every accepted lane of a packet against one triangle.
func closestHitK[K simd.Width](rays *core.RayK[K], valid simd.Mask[K], c Candidate[K],
	geomID, primID int32, geoms Geometries) simd.Mask[K] {
	accepted := simd.MaskFalse[K]()
	hit := c.Materialize(valid)
	filter := filterOf(geoms, geomID)
	for b := valid.Bits(); b != 0; b &= b - 1 {
		k := bits.TrailingZeros32(b)
		ok := true
		if geoms != nil {
			ray := rays.Ray(k)
			ok = visible(geoms, &ray, geomID) &&
				(filter == nil || filter(&ray, hit.Record(k, &ray, geomID, primID)))
		}
		accepted.SetTo(k, ok)
		if ok {
			rays.CommitLane(k, hit.U.Get(k), hit.V.Get(k), hit.T.Get(k), hit.Ng.Lane(k), geomID, primID)
		}
	}
	return accepted
}

// occludedK returns the accepted lanes of a packet against one triangle
// without touching the packet.
func occludedK[K simd.Width](rays *core.RayK[K], valid simd.Mask[K], c Candidate[K],
	geomID, primID int32, geoms Geometries) simd.Mask[K] {
	if geoms == nil {
		return valid
	}
	accepted := simd.MaskFalse[K]()
	filter := geoms.Filter(geomID)
	for b := valid.Bits(); b != 0; b &= b - 1 {
		k := bits.TrailingZeros32(b)
		ray := rays.Ray(k)
		if !visible(geoms, &ray, geomID) {
			continue
		}
		if filter != nil {
			u, v, t := c.MaterializeLane(k)
			rec := core.HitRecord{
				T: t, Point: ray.At(t), Ng: c.ng.Lane(k).Mul(c.flip.Get(k)),
				U: u, V: v, GeomID: geomID, PrimID: primID,
			}
			if !filter(&ray, rec) {
				continue
			}
		}
		accepted.Set(k)
	}
	return accepted
}

// ClosestHit1 commits the nearest accepted lane of a single-ray call into Ray
// and narrows its TFar.
type ClosestHit1[W simd.Width] struct {
	Ray        *core.Ray
	GeomIDs    simd.Int[W]
	PrimIDs    simd.Int[W]
	Geometries Geometries
}

// Accept commits the nearest visible lane that passes its filter.
func (e ClosestHit1[W]) Accept(valid simd.Mask[W], c Candidate[W]) bool {
	return closestHit1(e.Ray, valid, c, e.GeomIDs, e.PrimIDs, e.Geometries)
}

// Occluded1 accepts as soon as one lane passes the geometry mask and filter.
// The ray is never modified.
type Occluded1[W simd.Width] struct {
	Ray        *core.Ray
	GeomIDs    simd.Int[W]
	PrimIDs    simd.Int[W]
	Geometries Geometries
}

// Accept reports whether any visible lane passes its filter.
func (e Occluded1[W]) Accept(valid simd.Mask[W], c Candidate[W]) bool {
	return occluded1(e.Ray, valid, c, e.GeomIDs, e.PrimIDs, e.Geometries)
}

// ClosestHit1K is ClosestHit1 for lane K of a packet.
type ClosestHit1K[W, K simd.Width] struct {
	Rays       *core.RayK[K]
	Lane       int
	GeomIDs    simd.Int[W]
	PrimIDs    simd.Int[W]
	Geometries Geometries
}

// Accept commits the nearest accepted lane into packet lane Lane.
func (e ClosestHit1K[W, K]) Accept(valid simd.Mask[W], c Candidate[W]) bool {
	return closestHit1Lane(e.Rays, e.Lane, valid, c, e.GeomIDs, e.PrimIDs, e.Geometries)
}

func closestHit1Lane[W, K simd.Width](rays *core.RayK[K], k int, valid simd.Mask[W], c Candidate[W],
	geomIDs, primIDs simd.Int[W], geoms Geometries) bool {
	ray := rays.Ray(k)
	if !closestHit1(&ray, valid, c, geomIDs, primIDs, geoms) {
		return false
	}
	rays.CommitLane(k, ray.U, ray.V, ray.TFar, ray.Ng, ray.GeomID, ray.PrimID)
	return true
}

// Occluded1K is Occluded1 for lane K of a packet.
type Occluded1K[W, K simd.Width] struct {
	Rays       *core.RayK[K]
	Lane       int
	GeomIDs    simd.Int[W]
	PrimIDs    simd.Int[W]
	Geometries Geometries
}

// Accept reports whether packet lane Lane is occluded by any accepted lane.
func (e Occluded1K[W, K]) Accept(valid simd.Mask[W], c Candidate[W]) bool {
	ray := e.Rays.Ray(e.Lane)
	return occluded1(&ray, valid, c, e.GeomIDs, e.PrimIDs, e.Geometries)
}

// ClosestHitK commits every accepted lane of a packet call against one
// triangle into Rays.
type ClosestHitK[K simd.Width] struct {
	Rays       *core.RayK[K]
	GeomID     int32
	PrimID     int32
	Geometries Geometries
}

// AcceptK commits every accepted ray lane and returns those lanes.
func (e ClosestHitK[K]) AcceptK(valid simd.Mask[K], c Candidate[K]) simd.Mask[K] {
	return closestHitK(e.Rays, valid, c, e.GeomID, e.PrimID, e.Geometries)
}

// OccludedK clears accepted lanes from the caller-owned Pending mask. Rays
// are never modified.
type OccludedK[K simd.Width] struct {
	Rays       *core.RayK[K]
	Pending    *simd.Mask[K]
	GeomID     int32
	PrimID     int32
	Geometries Geometries
}

// AcceptK returns the occluded lanes and removes them from Pending.
func (e OccludedK[K]) AcceptK(valid simd.Mask[K], c Candidate[K]) simd.Mask[K] {
	accepted := occludedK(e.Rays, valid, c, e.GeomID, e.PrimID, e.Geometries)
	*e.Pending = e.Pending.AndNot(accepted)
	return accepted
}
