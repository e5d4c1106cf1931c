package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	sphereGridSize     = 9 // odd, so a column sits on the grid center
	sphereGridSpacing  = 1
	sphereGridRadius   = 0.35
	sphereSubdivisions = 2
)

// NewIcosphereMesh creates a sphere approximation by splitting every face of
// an icosahedron into four, subdivisions times, and projecting the new
// vertices onto the sphere. Shared edges share their midpoint vertex.
func NewIcosphereMesh(name string, center mgl32.Vec3, radius float32, subdivisions int) *Mesh {
	base := NewIcosahedronMesh(name, mgl32.Vec3{}, 1)
	vertices := base.Vertices
	tris := base.Triangles

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			vertices = append(vertices, vertices[a].Add(vertices[b]).Normalize())
			midpoints[key] = len(vertices) - 1
			return len(vertices) - 1
		}

		next := make([][3]int, 0, 4*len(tris))
		for _, t := range tris {
			ab := midpoint(t[0], t[1])
			bc := midpoint(t[1], t[2])
			ca := midpoint(t[2], t[0])
			next = append(next,
				[3]int{t[0], ab, ca},
				[3]int{t[1], bc, ab},
				[3]int{t[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		tris = next
	}

	for i, v := range vertices {
		vertices[i] = center.Add(v.Normalize().Mul(radius))
	}
	return NewMesh(name, vertices, tris)
}

// sphereGridMeshes lays out a square grid of icospheres on a ground quad, one
// mesh per sphere, giving a scene with many small meshes and few pairs.
func sphereGridMeshes() []*Mesh {
	meshes := []*Mesh{NewGroundMesh("ground", -sphereGridRadius, sphereGridSize*sphereGridSpacing+1)}
	offset := float32(sphereGridSize-1) * sphereGridSpacing / 2
	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			center := mgl32.Vec3{float32(i)*sphereGridSpacing - offset, 0, float32(j)*sphereGridSpacing - offset}
			meshes = append(meshes, NewIcosphereMesh(fmt.Sprintf("sphere-%d-%d", i, j), center, sphereGridRadius, sphereSubdivisions))
		}
	}
	return meshes
}
