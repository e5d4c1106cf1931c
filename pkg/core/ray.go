package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InvalidID marks a geometry or primitive ID that has not been set by a hit.
const InvalidID int32 = -1

// Infinity is the default far distance of a ray.
var Infinity = float32(math.Inf(1))

// Ray is a single ray segment [TNear, TFar] plus the hit fields a closest-hit
// query writes.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // need not be unit length
	TNear     float32
	TFar      float32
	Time      float32
	Mask      uint32

	// Hit outputs, valid once GeomID != InvalidID
	U, V   float32
	Ng     mgl32.Vec3
	GeomID int32
	PrimID int32
}

// NewRay creates a ray covering [0, +Inf) visible to every geometry mask.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return NewRaySegment(origin, direction, 0, Infinity)
}

// NewRaySegment creates a ray covering [tnear, tfar].
func NewRaySegment(origin, direction mgl32.Vec3, tnear, tfar float32) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		TNear:     tnear,
		TFar:      tfar,
		Mask:      math.MaxUint32,
		GeomID:    InvalidID,
		PrimID:    InvalidID,
	}
}

// At returns the point at parameter t along the ray
func (r *Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit reports whether a closest-hit query committed a hit.
func (r *Ray) Hit() bool {
	return r.GeomID != InvalidID
}

// Reset clears the hit fields and restores the far distance.
func (r *Ray) Reset(tfar float32) {
	r.TFar = tfar
	r.U, r.V = 0, 0
	r.Ng = mgl32.Vec3{}
	r.GeomID, r.PrimID = InvalidID, InvalidID
}

// Record captures the committed hit, or returns false when there is none.
func (r *Ray) Record() (HitRecord, bool) {
	if !r.Hit() {
		return HitRecord{}, false
	}
	return HitRecord{
		T:      r.TFar,
		Point:  r.At(r.TFar),
		Ng:     r.Ng,
		U:      r.U,
		V:      r.V,
		GeomID: r.GeomID,
		PrimID: r.PrimID,
	}, true
}

// String formats the ray for test failures and debug logs.
func (r Ray) String() string {
	return fmt.Sprintf("Ray{org=%v dir=%v t=[%g,%g] geomID=%d primID=%d u=%g v=%g Ng=%v}",
		r.Origin, r.Direction, r.TNear, r.TFar, r.GeomID, r.PrimID, r.U, r.V, r.Ng)
}

// HitRecord is a committed hit detached from its ray.
type HitRecord struct {
	T      float32
	Point  mgl32.Vec3
	Ng     mgl32.Vec3 // unnormalized geometric normal
	U, V   float32
	GeomID int32
	PrimID int32
}
