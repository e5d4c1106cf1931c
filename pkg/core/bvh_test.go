package core

import (
	"math"
	"testing"

	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

// mockItem for testing: a box that reports a hit at a fixed t
type mockItem struct {
	boundingBox AABB
	t           float32
}

func (m mockItem) BoundingBox() AABB {
	return m.boundingBox
}

func unitBoxAt(x float32) AABB {
	return NewAABB(mgl32.Vec3{x, 0, 0}, mgl32.Vec3{x + 1, 1, 1})
}

// closestHit runs a closest-hit walk over mock items, narrowing TFar like a real leaf would.
func closestHit(bvh *BVH[mockItem], ray *Ray) (float32, bool) {
	found := false
	bvh.Visit(ray, func(leaf int, items []mockItem) bool {
		for _, item := range items {
			if item.t > ray.TNear && item.t < ray.TFar && item.boundingBox.Hit(ray, ray.TNear, item.t) {
				ray.TFar = item.t
				found = true
			}
		}
		return false
	})
	return ray.TFar, found
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	items := make([]mockItem, 8)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i))}
	}

	bvh := NewBVH(items, 8)
	stats := bvh.Stats()
	if stats.TotalNodes != 1 {
		t.Errorf("Expected 1 node for %d items, got %d", len(items), stats.TotalNodes)
	}
	if stats.LeafNodes != 1 || bvh.Leaves != 1 {
		t.Errorf("Expected 1 leaf node for %d items, got %d", len(items), stats.LeafNodes)
	}

	items = append(items, mockItem{boundingBox: unitBoxAt(8)})
	bvh = NewBVH(items, 8)
	stats = bvh.Stats()
	if stats.TotalNodes == 1 {
		t.Errorf("Expected split for %d items, but got single node", len(items))
	}
	if stats.LeafNodes < 2 {
		t.Errorf("Expected at least 2 leaf nodes after split, got %d", stats.LeafNodes)
	}
}

func TestBVH_LeafNumbering(t *testing.T) {
	items := make([]mockItem, 37)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i))}
	}
	bvh := NewBVH(items, 4)

	seen := make([]bool, bvh.Leaves)
	var walk func(n *BVHNode[mockItem])
	walk = func(n *BVHNode[mockItem]) {
		if n.Items != nil {
			if len(n.Items) > 4 {
				t.Errorf("Leaf %d holds %d items, want at most 4", n.Leaf, len(n.Items))
			}
			if seen[n.Leaf] {
				t.Errorf("Leaf index %d used twice", n.Leaf)
			}
			seen[n.Leaf] = true
			return
		}
		if n.Leaf != -1 {
			t.Errorf("Internal node carries leaf index %d", n.Leaf)
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(bvh.Root)

	for i, ok := range seen {
		if !ok {
			t.Errorf("Leaf index %d never assigned", i)
		}
	}
	if got := bvh.Stats().TotalItems; got != 37 {
		t.Errorf("Expected 37 items, got %d", got)
	}
}

func TestBVH_EmptyAndSingleItem(t *testing.T) {
	bvh := NewBVH([]mockItem{}, 8)
	if bvh.Root != nil {
		t.Error("Expected nil root for empty BVH")
	}

	ray := NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	if _, found := closestHit(bvh, &ray); found {
		t.Error("Expected no hit for empty BVH")
	}

	bvh = NewBVH([]mockItem{{boundingBox: unitBoxAt(0), t: 1}}, 8)
	stats := bvh.Stats()
	if stats.TotalNodes != 1 || stats.LeafNodes != 1 {
		t.Errorf("Expected a single leaf, got %+v", stats)
	}
}

func TestBVH_ClosestHitAcrossLeaves(t *testing.T) {
	// The item at x=k reports a hit at t=k+2
	items := make([]mockItem, 40)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i)), t: float32(i) + 2}
	}
	// Reversed input order must not matter
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	bvh := NewBVH(items, 4)

	tests := []struct {
		name     string
		origin   mgl32.Vec3
		dir      mgl32.Vec3
		expected float32
	}{
		{"forward", mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 2},
		{"origin inside a box", mgl32.Vec3{10.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(tt.origin, tt.dir)
			got, found := closestHit(bvh, &ray)
			if !found {
				t.Fatal("Expected hit")
			}
			if math.Abs(float64(got-tt.expected)) > 1e-6 {
				t.Errorf("Expected closest hit at t=%v, got t=%v", tt.expected, got)
			}
		})
	}
}

func TestBVH_VisitPrunesBeyondTFar(t *testing.T) {
	items := make([]mockItem, 32)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i) * 2)}
	}
	bvh := NewBVH(items, 2)

	ray := NewRaySegment(mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0, 4)
	visited := 0
	bvh.Visit(&ray, func(leaf int, items []mockItem) bool {
		visited++
		return false
	})
	if visited == 0 || visited >= bvh.Leaves {
		t.Errorf("Expected a pruned walk, visited %d of %d leaves", visited, bvh.Leaves)
	}
}

func TestBVH_VisitStops(t *testing.T) {
	items := make([]mockItem, 16)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i))}
	}
	bvh := NewBVH(items, 2)

	ray := NewRay(mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0})
	visited := 0
	stopped := bvh.Visit(&ray, func(leaf int, items []mockItem) bool {
		visited++
		return true
	})
	if !stopped || visited != 1 {
		t.Errorf("Expected to stop after one leaf, stopped=%v visited=%d", stopped, visited)
	}
}

func TestVisitK_FinishedLanesLeave(t *testing.T) {
	items := make([]mockItem, 16)
	for i := range items {
		items[i] = mockItem{boundingBox: unitBoxAt(float32(i))}
	}
	bvh := NewBVH(items, 2)

	rays := NewRayK[simd.W4]()
	rays.SetRay(0, NewRay(mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}))
	rays.SetRay(1, NewRay(mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}))
	rays.SetRay(2, NewRay(mgl32.Vec3{-1, 5, 0.5}, mgl32.Vec3{1, 0, 0})) // above every box
	rays.SetRay(3, NewRay(mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}))
	valid := simd.MaskFromBits[simd.W4](0b0111)

	visits := 0
	done := VisitK(bvh, &rays, valid, func(active simd.Mask[simd.W4], leaf int, items []mockItem) simd.Mask[simd.W4] {
		visits++
		if active.Get(2) || active.Get(3) {
			t.Errorf("Leaf %d saw lanes outside the hit set: %v", leaf, active)
		}
		// Lane 0 finishes at its first leaf
		return simd.MaskFromBits[simd.W4](0b0001)
	})

	if got := done.Bits(); got != 0b0001 {
		t.Errorf("Expected lane 0 finished, got %04b", got)
	}
	if visits != bvh.Leaves {
		t.Errorf("Lane 1 should reach every leaf: visits %d, leaves %d", visits, bvh.Leaves)
	}
}
