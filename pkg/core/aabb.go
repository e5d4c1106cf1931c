package core

import (
	"math"

	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl32.Vec3 // Minimum corner
	Max mgl32.Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any Union or Extend replaces.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box
}

// Extend grows the box to contain p.
func (aabb AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		aabb.Min[i] = min(aabb.Min[i], p[i])
		aabb.Max[i] = max(aabb.Max[i], p[i])
	}
	return aabb
}

// Hit tests if the ray segment [tMin, tMax] overlaps this AABB using the slab method
func (aabb AABB) Hit(ray *Ray, tMin, tMax float32) bool {
	return aabb.hitSegment(ray.Origin, ray.Direction, tMin, tMax)
}

func (aabb AABB) hitSegment(origin, direction mgl32.Vec3, tMin, tMax float32) bool {
	for axis := 0; axis < 3; axis++ {
		lo, hi := aabb.Min[axis], aabb.Max[axis]
		o, d := origin[axis], direction[axis]

		// Parallel to the slab: only the origin decides
		if d > -1e-12 && d < 1e-12 {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// HitK returns the lanes of valid whose ray segment [TNear, TFar] overlaps box.
func HitK[K simd.Width](box AABB, rays *RayK[K], valid simd.Mask[K]) simd.Mask[K] {
	hit := valid
	n := simd.LanesOf[K]()
	for k := 0; k < n; k++ {
		if !valid.Get(k) {
			continue
		}
		if !box.hitSegment(rays.Origin.Lane(k), rays.Direction.Lane(k), rays.TNear.Get(k), rays.TFar.Get(k)) {
			hit.Clear(k)
		}
	}
	return hit
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	for i := 0; i < 3; i++ {
		aabb.Min[i] = min(aabb.Min[i], other.Min[i])
		aabb.Max[i] = max(aabb.Max[i], other.Max[i])
	}
	return aabb
}

// Center returns the center point of the AABB
func (aabb AABB) Center() mgl32.Vec3 {
	return aabb.Min.Add(aabb.Max).Mul(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() mgl32.Vec3 {
	return aabb.Max.Sub(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float32 {
	s := aabb.Size()
	return 2 * (s[0]*s[1] + s[1]*s[2] + s[2]*s[0])
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	s := aabb.Size()
	if s[0] > s[1] && s[0] > s[2] {
		return 0
	}
	if s[1] > s[2] {
		return 1
	}
	return 2
}

// IsValid returns true if min <= max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min[0] <= aabb.Max[0] &&
		aabb.Min[1] <= aabb.Max[1] &&
		aabb.Min[2] <= aabb.Max[2]
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float32) AABB {
	e := mgl32.Vec3{amount, amount, amount}
	return AABB{Min: aabb.Min.Sub(e), Max: aabb.Max.Add(e)}
}
