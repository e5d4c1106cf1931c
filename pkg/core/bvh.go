package core

import (
	"sort"

	"github.com/df07/go-raykernel/pkg/simd"
)

// Bounded is anything that can be placed in a BVH.
type Bounded interface {
	BoundingBox() AABB
}

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode[T Bounded] struct {
	BoundingBox AABB
	Left        *BVHNode[T]
	Right       *BVHNode[T]
	Axis        int // split axis of internal nodes
	Items       []T // leaf items (nil for internal nodes)
	Leaf        int // leaf index in build order, -1 for internal nodes
}

// BVH is a Bounding Volume Hierarchy over items. Leaves are numbered
// 0..Leaves-1 in depth-first order so callers can keep per-leaf data in a slice.
type BVH[T Bounded] struct {
	Root   *BVHNode[T]
	Leaves int

	leafSize int
}

// DefaultLeafSize is the leaf threshold used when NewBVH is given a size below one.
const DefaultLeafSize = 8

// NewBVH constructs a BVH whose leaves hold at most leafSize items.
func NewBVH[T Bounded](items []T, leafSize int) *BVH[T] {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}
	bvh := &BVH[T]{leafSize: leafSize}
	if len(items) == 0 {
		return bvh
	}

	// Sorting reorders the slice, so work on a copy
	itemsCopy := make([]T, len(items))
	copy(itemsCopy, items)

	bvh.Root = bvh.build(itemsCopy, 0)
	return bvh
}

// build recursively splits items at the median along the longest axis of their centroids
func (bvh *BVH[T]) build(items []T, depth int) *BVHNode[T] {
	bounds := items[0].BoundingBox()
	centroids := NewAABBFromPoints(bounds.Center())
	for _, item := range items[1:] {
		b := item.BoundingBox()
		bounds = bounds.Union(b)
		centroids = centroids.Extend(b.Center())
	}

	if len(items) <= bvh.leafSize {
		node := &BVHNode[T]{BoundingBox: bounds, Items: items, Leaf: bvh.Leaves}
		bvh.Leaves++
		return node
	}

	axis := centroids.LongestAxis()
	sortByAxis(items, axis)

	// Split on a multiple of the leaf size so leaves stay full
	mid := len(items) / 2
	if rem := mid % bvh.leafSize; rem != 0 && mid-rem > 0 {
		mid -= rem
	}

	return &BVHNode[T]{
		BoundingBox: bounds,
		Axis:        axis,
		Left:        bvh.build(items[:mid], depth+1),
		Right:       bvh.build(items[mid:], depth+1),
		Leaf:        -1,
	}
}

// sortByAxis sorts items by their bounding box center along the specified axis
func sortByAxis[T Bounded](items []T, axis int) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BoundingBox().Center()[axis] < items[j].BoundingBox().Center()[axis]
	})
}

// Visit walks the leaves whose bounds overlap the ray segment, nearer child
// first. ray.TFar is re-read at every node, so a visit that shortens the ray
// prunes the rest of the walk. visit returns true to stop; Visit reports
// whether it was stopped.
func (bvh *BVH[T]) Visit(ray *Ray, visit func(leaf int, items []T) bool) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.visitNode(bvh.Root, ray, visit)
}

func (bvh *BVH[T]) visitNode(node *BVHNode[T], ray *Ray, visit func(int, []T) bool) bool {
	if !node.BoundingBox.Hit(ray, ray.TNear, ray.TFar) {
		return false
	}

	if node.Items != nil {
		return visit(node.Leaf, node.Items)
	}

	first, second := node.Left, node.Right
	if ray.Direction[node.Axis] < 0 {
		first, second = second, first
	}
	if bvh.visitNode(first, ray, visit) {
		return true
	}
	return bvh.visitNode(second, ray, visit)
}

// VisitK walks bvh with a packet. active holds the lanes still traversing;
// visit receives the lanes that overlap a leaf and returns those that are
// finished (for example occluded) and need not continue. VisitK returns every
// finished lane.
func VisitK[K simd.Width, T Bounded](bvh *BVH[T], rays *RayK[K], active simd.Mask[K],
	visit func(active simd.Mask[K], leaf int, items []T) simd.Mask[K]) simd.Mask[K] {
	if bvh.Root == nil || active.None() {
		return simd.MaskFalse[K]()
	}
	return visitNodeK(bvh.Root, rays, active, visit)
}

func visitNodeK[K simd.Width, T Bounded](node *BVHNode[T], rays *RayK[K], active simd.Mask[K],
	visit func(simd.Mask[K], int, []T) simd.Mask[K]) simd.Mask[K] {
	hit := HitK(node.BoundingBox, rays, active)
	if hit.None() {
		return simd.MaskFalse[K]()
	}

	if node.Items != nil {
		return visit(hit, node.Leaf, node.Items).And(hit)
	}

	// Order children by the direction of the first active lane
	first, second := node.Left, node.Right
	lead := hit.First()
	var dir float32
	switch node.Axis {
	case 0:
		dir = rays.Direction.X.Get(lead)
	case 1:
		dir = rays.Direction.Y.Get(lead)
	default:
		dir = rays.Direction.Z.Get(lead)
	}
	if dir < 0 {
		first, second = second, first
	}

	done := visitNodeK(first, rays, hit, visit)
	rest := hit.AndNot(done)
	if rest.None() {
		return done
	}
	return done.Or(visitNodeK(second, rays, rest, visit))
}

// Stats returns statistics about the BVH structure
func (bvh *BVH[T]) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
	AvgDepth   float64
	TotalItems int
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH[T]) collectStats(node *BVHNode[T], depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Items != nil {
		stats.LeafNodes++
		stats.TotalItems += len(node.Items)
		stats.AvgDepth += float64(depth)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
