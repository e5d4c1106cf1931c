package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NewQuadFromEdges creates the parallelogram with corner q and edges u and v,
// facing u x v.
func NewQuadFromEdges(name string, q, u, v mgl32.Vec3) *Mesh {
	m := NewMesh(name, []mgl32.Vec3{q, q.Add(u), q.Add(u).Add(v), q.Add(v)}, quadFaces(0, 1, 2, 3))
	m.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	return m
}

// cornellMeshes builds a Cornell box spanning [-1,1] on every axis with the
// open side facing +z. Walls face inward; every wall, the light and both
// blocks are made of quads, so every triangle has a pair partner.
func cornellMeshes() []*Mesh {
	const size = 2
	corner := mgl32.Vec3{-1, -1, -1}
	x := mgl32.Vec3{size, 0, 0}
	y := mgl32.Vec3{0, size, 0}
	z := mgl32.Vec3{0, 0, size}

	light := float32(0.5)
	lightCorner := mgl32.Vec3{-light / 2, 0.99, -light / 2}

	short := NewBoxMesh("short-block", mgl32.Vec3{}, mgl32.Vec3{0.6, 0.6, 0.6})
	short.Transform(mgl32.Translate3D(0.35, -0.7, 0.2).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-18))))
	tall := NewBoxMesh("tall-block", mgl32.Vec3{}, mgl32.Vec3{0.6, 1.2, 0.6})
	tall.Transform(mgl32.Translate3D(-0.35, -0.4, -0.3).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(15))))

	return []*Mesh{
		NewQuadFromEdges("floor", corner, z, x),
		NewQuadFromEdges("ceiling", corner.Add(y), x, z),
		NewQuadFromEdges("back-wall", corner, x, y),
		NewQuadFromEdges("left-wall", corner, y, z),
		NewQuadFromEdges("right-wall", corner.Add(x), z, y),
		NewQuadFromEdges("light", lightCorner, mgl32.Vec3{light, 0, 0}, mgl32.Vec3{0, 0, light}),
		short,
		tall,
	}
}
