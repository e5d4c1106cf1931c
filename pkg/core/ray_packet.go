package core

import (
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

// RayK is a packet of K rays stored lane-parallel. Lanes are independent; a
// lane outside the validity mask of a query is never read or written.
type RayK[K simd.Width] struct {
	Origin    simd.Vec3[K]
	Direction simd.Vec3[K]
	TNear     simd.Float[K]
	TFar      simd.Float[K]
	Time      simd.Float[K]
	Mask      simd.Int[K] // uint32 visibility masks stored as bit patterns

	U, V   simd.Float[K]
	Ng     simd.Vec3[K]
	GeomID simd.Int[K]
	PrimID simd.Int[K]
}

// NewRayK returns a packet whose lanes cover [0, +Inf) with no hit.
func NewRayK[K simd.Width]() RayK[K] {
	return RayK[K]{
		TFar:   simd.SplatFloat[K](Infinity),
		Mask:   simd.SplatInt[K](-1),
		GeomID: simd.SplatInt[K](InvalidID),
		PrimID: simd.SplatInt[K](InvalidID),
	}
}

// SetRay stores r into lane k.
func (p *RayK[K]) SetRay(k int, r Ray) {
	p.Origin.SetLane(k, r.Origin)
	p.Direction.SetLane(k, r.Direction)
	p.TNear.Set(k, r.TNear)
	p.TFar.Set(k, r.TFar)
	p.Time.Set(k, r.Time)
	p.Mask.Set(k, int32(r.Mask))
	p.U.Set(k, r.U)
	p.V.Set(k, r.V)
	p.Ng.SetLane(k, r.Ng)
	p.GeomID.Set(k, r.GeomID)
	p.PrimID.Set(k, r.PrimID)
}

// Ray extracts lane k as a single ray.
func (p *RayK[K]) Ray(k int) Ray {
	return Ray{
		Origin:    p.Origin.Lane(k),
		Direction: p.Direction.Lane(k),
		TNear:     p.TNear.Get(k),
		TFar:      p.TFar.Get(k),
		Time:      p.Time.Get(k),
		Mask:      uint32(p.Mask.Get(k)),
		U:         p.U.Get(k),
		V:         p.V.Get(k),
		Ng:        p.Ng.Lane(k),
		GeomID:    p.GeomID.Get(k),
		PrimID:    p.PrimID.Get(k),
	}
}

// CommitLane writes a hit into lane k and narrows its far distance to t.
func (p *RayK[K]) CommitLane(k int, u, v, t float32, ng mgl32.Vec3, geomID, primID int32) {
	p.U.Set(k, u)
	p.V.Set(k, v)
	p.TFar.Set(k, t)
	p.Ng.SetLane(k, ng)
	p.GeomID.Set(k, geomID)
	p.PrimID.Set(k, primID)
}

// HitMask returns the lanes holding a committed hit.
func (p *RayK[K]) HitMask() simd.Mask[K] {
	return p.GeomID.Ne(simd.SplatInt[K](InvalidID))
}
