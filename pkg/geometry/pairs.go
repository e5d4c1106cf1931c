package geometry

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/simd"
)

// TrianglePairsM packs up to M pairs lane-parallel. Index 0 of the per-half
// arrays belongs to the (v0,v1,v2) halves, index 1 to the (v0,v2,v3) halves.
type TrianglePairsM[M simd.Width] struct {
	V0, V1, V2, V3 simd.Vec3[M]
	GeomIDs        [2]simd.Int[M]
	PrimIDs        [2]simd.Int[M]
	Flags          [2]simd.Int[M]

	count  int
	bounds core.AABB
}

// PackPairs builds a batch from pairs. It panics if pairs does not fit.
func PackPairs[M simd.Width](pairs []TrianglePair) TrianglePairsM[M] {
	if n := simd.LanesOf[M](); len(pairs) > n {
		panic(fmt.Sprintf("geometry: %d pairs do not fit a %d-wide batch", len(pairs), n))
	}
	b := TrianglePairsM[M]{bounds: core.EmptyAABB()}
	for h := 0; h < 2; h++ {
		b.GeomIDs[h] = simd.SplatInt[M](core.InvalidID)
		b.PrimIDs[h] = simd.SplatInt[M](core.InvalidID)
	}
	for _, p := range pairs {
		b.Append(p)
	}
	return b
}

// Append adds p in the next free lane.
func (b *TrianglePairsM[M]) Append(p TrianglePair) {
	i := b.count
	if i >= simd.LanesOf[M]() {
		panic("geometry: pair batch is full")
	}
	b.V0.SetLane(i, p.V0)
	b.V1.SetLane(i, p.V1)
	b.V2.SetLane(i, p.V2)
	b.V3.SetLane(i, p.V3)
	for h := 0; h < 2; h++ {
		b.GeomIDs[h].Set(i, p.GeomIDs[h])
		b.PrimIDs[h].Set(i, p.PrimIDs[h])
		b.Flags[h].Set(i, p.Flags[h])
	}
	if i == 0 {
		b.bounds = p.BoundingBox()
	} else {
		b.bounds = b.bounds.Union(p.BoundingBox())
	}
	b.count++
}

// Count returns the number of filled lanes.
func (b *TrianglePairsM[M]) Count() int { return b.count }

// Active returns the mask of filled lanes.
func (b *TrianglePairsM[M]) Active() simd.Mask[M] { return simd.FirstLanes[M](b.count) }

// BoundingBox returns the bounds of every pair in the batch.
func (b *TrianglePairsM[M]) BoundingBox() core.AABB { return b.bounds }

// Pair returns lane i.
func (b *TrianglePairsM[M]) Pair(i int) TrianglePair {
	p := TrianglePair{
		V0: b.V0.Lane(i), V1: b.V1.Lane(i), V2: b.V2.Lane(i), V3: b.V3.Lane(i),
	}
	for h := 0; h < 2; h++ {
		p.GeomIDs[h] = b.GeomIDs[h].Get(i)
		p.PrimIDs[h] = b.PrimIDs[h].Get(i)
		p.Flags[h] = b.Flags[h].Get(i)
	}
	return p
}
