package texture

import "github.com/go-gl/mathgl/mgl32"

// TriangleTexCoords interpolates per-vertex texture coordinates at the
// barycentrics (u, v) of a triangle.
func TriangleTexCoords(t0, t1, t2 mgl32.Vec2, u, v float32) mgl32.Vec2 {
	return t0.Mul(1 - u - v).Add(t1.Mul(u)).Add(t2.Mul(v))
}

// QuadTexCoords bilinearly interpolates the texture coordinates of a quad
// t0..t3 at its parametric coordinates (u, v).
func QuadTexCoords(t0, t1, t2, t3 mgl32.Vec2, u, v float32) mgl32.Vec2 {
	return t0.Mul((1 - u) * (1 - v)).
		Add(t1.Mul(u * (1 - v))).
		Add(t2.Mul(u * v)).
		Add(t3.Mul((1 - u) * v))
}
