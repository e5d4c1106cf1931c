package geometry

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/simd"
)

// TrianglesM packs up to M triangles lane-parallel in the precomputed edge
// form (v0, e1, e2, Ng). Lanes at or beyond Count are unused.
type TrianglesM[M simd.Width] struct {
	V0, E1, E2, Ng simd.Vec3[M]
	GeomIDs        simd.Int[M]
	PrimIDs        simd.Int[M]

	count  int
	bounds core.AABB
}

// PackTriangles builds a batch from tris. It panics if tris does not fit.
func PackTriangles[M simd.Width](tris []Triangle) TrianglesM[M] {
	if n := simd.LanesOf[M](); len(tris) > n {
		panic(fmt.Sprintf("geometry: %d triangles do not fit a %d-wide batch", len(tris), n))
	}
	b := TrianglesM[M]{bounds: core.EmptyAABB()}
	b.GeomIDs = simd.SplatInt[M](core.InvalidID)
	b.PrimIDs = simd.SplatInt[M](core.InvalidID)
	for _, t := range tris {
		b.Append(t)
	}
	return b
}

// Append adds t in the next free lane.
func (b *TrianglesM[M]) Append(t Triangle) {
	i := b.count
	if i >= simd.LanesOf[M]() {
		panic("geometry: triangle batch is full")
	}
	e1, e2, ng := t.Edges()
	b.V0.SetLane(i, t.V0)
	b.E1.SetLane(i, e1)
	b.E2.SetLane(i, e2)
	b.Ng.SetLane(i, ng)
	b.GeomIDs.Set(i, t.GeomID)
	b.PrimIDs.Set(i, t.PrimID)
	if i == 0 {
		b.bounds = t.BoundingBox()
	} else {
		b.bounds = b.bounds.Union(t.BoundingBox())
	}
	b.count++
}

// Count returns the number of filled lanes.
func (b *TrianglesM[M]) Count() int { return b.count }

// Active returns the mask of filled lanes.
func (b *TrianglesM[M]) Active() simd.Mask[M] { return simd.FirstLanes[M](b.count) }

// BoundingBox returns the bounds of every triangle in the batch.
func (b *TrianglesM[M]) BoundingBox() core.AABB { return b.bounds }

// Triangle reconstructs lane i from its edge form. Vertices v1 and v2 are
// recovered up to floating point rounding.
func (b *TrianglesM[M]) Triangle(i int) Triangle {
	v0 := b.V0.Lane(i)
	return Triangle{
		V0:     v0,
		V1:     v0.Sub(b.E1.Lane(i)),
		V2:     v0.Add(b.E2.Lane(i)),
		GeomID: b.GeomIDs.Get(i),
		PrimID: b.PrimIDs.Get(i),
	}
}
