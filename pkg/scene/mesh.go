package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/intersect"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle mesh. Triangle i of the mesh is reported with
// primitive ID i, and barycentrics (u, v) weight its second and third vertex.
type Mesh struct {
	Name      string
	Vertices  []mgl32.Vec3
	Triangles [][3]int
	TexCoords []mgl32.Vec2 // per vertex, optional

	// Mask is ANDed with the ray mask; a zero result hides the mesh.
	Mask uint32
	// Filter, when set, is consulted for every candidate hit on the mesh.
	Filter intersect.FilterFunc
}

// NewMesh creates a mesh visible to every ray.
func NewMesh(name string, vertices []mgl32.Vec3, triangles [][3]int) *Mesh {
	return &Mesh{Name: name, Vertices: vertices, Triangles: triangles, Mask: math.MaxUint32}
}

// Validate checks indices and texture coordinate counts.
func (m *Mesh) Validate() error {
	if len(m.TexCoords) != 0 && len(m.TexCoords) != len(m.Vertices) {
		return fmt.Errorf("mesh %q: %d texture coordinates for %d vertices", m.Name, len(m.TexCoords), len(m.Vertices))
	}
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("mesh %q: triangle %d references vertex %d of %d", m.Name, i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Triangle returns triangle i tagged with geomID.
func (m *Mesh) Triangle(i int, geomID int32) geometry.Triangle {
	t := m.Triangles[i]
	return geometry.NewTriangle(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]], geomID, int32(i))
}

// TexCoordAt interpolates the texture coordinates of triangle primID at
// (u, v). It reports false when the mesh has none.
func (m *Mesh) TexCoordAt(primID int32, u, v float32) (mgl32.Vec2, bool) {
	if len(m.TexCoords) == 0 || primID < 0 || int(primID) >= len(m.Triangles) {
		return mgl32.Vec2{}, false
	}
	t := m.Triangles[primID]
	t0, t1, t2 := m.TexCoords[t[0]], m.TexCoords[t[1]], m.TexCoords[t[2]]
	return t0.Mul(1 - u - v).Add(t1.Mul(u)).Add(t2.Mul(v)), true
}

// BoundingBox returns the bounds of every vertex.
func (m *Mesh) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(m.Vertices...)
}

// Transform applies mat to every vertex in place.
func (m *Mesh) Transform(mat mgl32.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mgl32.TransformCoordinate(v, mat)
	}
}
