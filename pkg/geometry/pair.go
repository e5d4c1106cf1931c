package geometry

import (
	"github.com/df07/go-raykernel/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

// TrianglePair is two triangles sharing the diagonal v0-v2, stored as a quad:
// the first half is (v0,v1,v2) and the second (v0,v2,v3). Each half carries
// its own IDs and rotation word.
type TrianglePair struct {
	V0, V1, V2, V3 mgl32.Vec3
	GeomIDs        [2]int32
	PrimIDs        [2]int32
	Flags          [2]int32
}

// NewQuad creates a pair from a planar or near-planar quad v0..v3. The halves
// get primitive IDs primID and primID+1.
func NewQuad(v0, v1, v2, v3 mgl32.Vec3, geomID, primID int32) TrianglePair {
	return TrianglePair{
		V0: v0, V1: v1, V2: v2, V3: v3,
		GeomIDs: [2]int32{geomID, geomID},
		PrimIDs: [2]int32{primID, primID + 1},
		Flags:   DefaultPairFlags(),
	}
}

// Half returns sub-triangle h (0 or 1) in its original vertex order.
func (p TrianglePair) Half(h int) Triangle {
	if h == 0 {
		return Triangle{V0: p.V0, V1: p.V1, V2: p.V2, GeomID: p.GeomIDs[0], PrimID: p.PrimIDs[0]}
	}
	return Triangle{V0: p.V0, V1: p.V2, V2: p.V3, GeomID: p.GeomIDs[1], PrimID: p.PrimIDs[1]}
}

// KernelVertices returns half h in the vertex order the intersectors use
// (v1|v3, v0, v2) together with its normal flip factor.
func (p TrianglePair) KernelVertices(h int) (vtx0, vtx1, vtx2 mgl32.Vec3, flip float32) {
	if h == 0 {
		return p.V1, p.V0, p.V2, -1
	}
	return p.V3, p.V0, p.V2, 1
}

// BoundingBox returns the bounds of both halves
func (p TrianglePair) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(p.V0, p.V1, p.V2, p.V3)
}
