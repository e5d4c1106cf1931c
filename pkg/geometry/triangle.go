package geometry

import (
	"github.com/df07/go-raykernel/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 mgl32.Vec3
	GeomID     int32
	PrimID     int32
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 mgl32.Vec3, geomID, primID int32) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2, GeomID: geomID, PrimID: primID}
}

// Edges returns the precomputed edge form used by the intersectors:
// e1 = v0-v1, e2 = v2-v0 and ng = e1 x e2.
func (t Triangle) Edges() (e1, e2, ng mgl32.Vec3) {
	e1 = t.V0.Sub(t.V1)
	e2 = t.V2.Sub(t.V0)
	return e1, e2, e1.Cross(e2)
}

// Normal returns the unit normal of the counter-clockwise winding v0, v1, v2.
// Hits report the opposite orientation, see Edges.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0))
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// Area returns the triangle's area; zero for degenerate triangles.
func (t Triangle) Area() float32 {
	return 0.5 * t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Len()
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() mgl32.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3)
}

// Interpolate returns the point (1-u-v)*v0 + u*v1 + v*v2.
func (t Triangle) Interpolate(u, v float32) mgl32.Vec3 {
	return t.V0.Mul(1 - u - v).Add(t.V1.Mul(u)).Add(t.V2.Mul(v))
}

// BoundingBox returns the axis-aligned bounding box of the triangle
func (t Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}
