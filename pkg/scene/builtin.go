package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// builtins maps the names of the built-in scenes to their constructors.
var builtins = map[string]func() []*Mesh{
	"quad":       func() []*Mesh { return []*Mesh{NewQuadMesh("quad", 2)} },
	"grid":       func() []*Mesh { return []*Mesh{NewGridMesh("grid", 16, 4)} },
	"cube":       func() []*Mesh { return []*Mesh{NewBoxMesh("cube", mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})} },
	"shapes":     shapesMeshes,
	"cornell":    cornellMeshes,
	"spheregrid": sphereGridMeshes,
}

// BuiltinNames lists the built-in scenes in alphabetical order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin creates an uncommitted scene holding the named built-in meshes.
func Builtin(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in scene %q", name)
	}
	s := New()
	for _, m := range build() {
		if _, err := s.AddMesh(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// quadFaces splits quad (a,b,c,d) into (a,b,c),(a,c,d).
func quadFaces(a, b, c, d int) [][3]int {
	return [][3]int{{a, b, c}, {a, c, d}}
}

// NewQuadMesh creates a size x size square in the z=0 plane facing +z.
func NewQuadMesh(name string, size float32) *Mesh {
	h := size / 2
	m := NewMesh(name, []mgl32.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}}, quadFaces(0, 1, 2, 3))
	m.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	return m
}

// NewGridMesh creates an n x n grid of cells covering a size x size square in
// the z=0 plane facing +z. Vertices are shared between cells.
func NewGridMesh(name string, n int, size float32) *Mesh {
	stride := n + 1
	vertices := make([]mgl32.Vec3, 0, stride*stride)
	texcoords := make([]mgl32.Vec2, 0, stride*stride)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			s, t := float32(i)/float32(n), float32(j)/float32(n)
			vertices = append(vertices, mgl32.Vec3{(s - 0.5) * size, (t - 0.5) * size, 0})
			texcoords = append(texcoords, mgl32.Vec2{s, t})
		}
	}
	var tris [][3]int
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := j*stride + i
			tris = append(tris, quadFaces(a, a+1, a+stride+1, a+stride)...)
		}
	}
	m := NewMesh(name, vertices, tris)
	m.TexCoords = texcoords
	return m
}

// NewBoxMesh creates an axis-aligned box whose faces are counter-clockwise
// seen from outside.
func NewBoxMesh(name string, center, size mgl32.Vec3) *Mesh {
	h := size.Mul(0.5)
	vertices := []mgl32.Vec3{
		center.Add(mgl32.Vec3{-h[0], -h[1], -h[2]}), // 0: left-bottom-back
		center.Add(mgl32.Vec3{+h[0], -h[1], -h[2]}), // 1: right-bottom-back
		center.Add(mgl32.Vec3{+h[0], +h[1], -h[2]}), // 2: right-top-back
		center.Add(mgl32.Vec3{-h[0], +h[1], -h[2]}), // 3: left-top-back
		center.Add(mgl32.Vec3{-h[0], -h[1], +h[2]}), // 4: left-bottom-front
		center.Add(mgl32.Vec3{+h[0], -h[1], +h[2]}), // 5: right-bottom-front
		center.Add(mgl32.Vec3{+h[0], +h[1], +h[2]}), // 6: right-top-front
		center.Add(mgl32.Vec3{-h[0], +h[1], +h[2]}), // 7: left-top-front
	}
	var tris [][3]int
	for _, f := range [][4]int{
		{0, 3, 2, 1}, // back (z-)
		{4, 5, 6, 7}, // front (z+)
		{0, 4, 7, 3}, // left (x-)
		{1, 2, 6, 5}, // right (x+)
		{0, 1, 5, 4}, // bottom (y-)
		{3, 7, 6, 2}, // top (y+)
	} {
		tris = append(tris, quadFaces(f[0], f[1], f[2], f[3])...)
	}
	return NewMesh(name, vertices, tris)
}

// NewPyramidMesh creates a square pyramid standing on the y axis.
func NewPyramidMesh(name string, center mgl32.Vec3, base, height float32) *Mesh {
	b, h := base/2, height/2
	vertices := []mgl32.Vec3{
		center.Add(mgl32.Vec3{-b, -h, -b}), // 0: left-back
		center.Add(mgl32.Vec3{+b, -h, -b}), // 1: right-back
		center.Add(mgl32.Vec3{+b, -h, +b}), // 2: right-front
		center.Add(mgl32.Vec3{-b, -h, +b}), // 3: left-front
		center.Add(mgl32.Vec3{0, +h, 0}),   // 4: apex
	}
	tris := quadFaces(0, 1, 2, 3)
	tris = append(tris, [][3]int{{0, 4, 1}, {1, 4, 2}, {2, 4, 3}, {3, 4, 0}}...)
	return NewMesh(name, vertices, tris)
}

// NewIcosahedronMesh creates a regular icosahedron with the given circumradius.
func NewIcosahedronMesh(name string, center mgl32.Vec3, radius float32) *Mesh {
	phi := float32((1 + math.Sqrt(5)) / 2)
	scale := radius / float32(math.Sqrt(float64(1+phi*phi)))
	raw := []mgl32.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	vertices := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = center.Add(v.Mul(scale))
	}
	tris := [][3]int{
		// 5 faces around point 0
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		// 5 adjacent faces
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		// 5 faces around point 3
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		// 5 adjacent faces
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return NewMesh(name, vertices, tris)
}

// NewGroundMesh creates a size x size square at height y facing +y.
func NewGroundMesh(name string, y, size float32) *Mesh {
	h := size / 2
	return NewMesh(name, []mgl32.Vec3{{-h, y, h}, {h, y, h}, {h, y, -h}, {-h, y, -h}}, quadFaces(0, 1, 2, 3))
}

func shapesMeshes() []*Mesh {
	cube := NewBoxMesh("cube", mgl32.Vec3{}, mgl32.Vec3{0.8, 0.8, 0.8})
	cube.Transform(mgl32.Translate3D(-1.2, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(30))))
	return []*Mesh{
		NewGroundMesh("ground", -0.55, 8),
		cube,
		NewPyramidMesh("pyramid", mgl32.Vec3{0, 0, 0}, 0.9, 1),
		NewIcosahedronMesh("icosahedron", mgl32.Vec3{1.2, 0, 0}, 0.5),
	}
}
