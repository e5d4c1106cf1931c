package core

import (
	"testing"

	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	flat := NewAABB(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, 1, 0})

	tests := []struct {
		name     string
		box      AABB
		origin   mgl32.Vec3
		dir      mgl32.Vec3
		tMax     float32
		expected bool
	}{
		{"through center", box, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, Infinity, true},
		{"pointing away", box, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, -1}, Infinity, false},
		{"parallel outside slab", box, mgl32.Vec3{2, 0, -5}, mgl32.Vec3{0, 0, 1}, Infinity, false},
		{"segment ends before box", box, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, 3, false},
		{"zero thickness box", flat, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, Infinity, true},
		{"origin on face, parallel", box, mgl32.Vec3{1, 0, -5}, mgl32.Vec3{0, 0, 1}, Infinity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(tt.origin, tt.dir)
			if got := tt.box.Hit(&ray, 0, tt.tMax); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_HitK(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	rays := NewRayK[simd.W4]()
	rays.SetRay(0, NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}))
	rays.SetRay(1, NewRay(mgl32.Vec3{5, 0, -5}, mgl32.Vec3{0, 0, 1}))
	rays.SetRay(2, NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}))
	rays.SetRay(3, NewRaySegment(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, 0, 1))

	got := HitK(box, &rays, simd.MaskFromBits[simd.W4](0b1011))
	if got.Bits() != 0b0001 {
		t.Errorf("Expected %04b, got %04b", 0b0001, got.Bits())
	}
}

func TestAABB_UnionAndAxis(t *testing.T) {
	a := NewAABBFromPoints(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := NewAABBFromPoints(mgl32.Vec3{4, -1, 0})
	u := a.Union(b)
	if u.Min != (mgl32.Vec3{0, -1, 0}) || u.Max != (mgl32.Vec3{4, 1, 1}) {
		t.Errorf("Unexpected union %+v", u)
	}
	if u.LongestAxis() != 0 {
		t.Errorf("Expected X as longest axis, got %d", u.LongestAxis())
	}
	if got := EmptyAABB().Union(a); got != a {
		t.Errorf("Empty box should be the union identity, got %+v", got)
	}
	if EmptyAABB().IsValid() {
		t.Error("Empty box should not be valid")
	}
	if got := a.SurfaceArea(); got != 6 {
		t.Errorf("Expected surface area 6, got %v", got)
	}
}
