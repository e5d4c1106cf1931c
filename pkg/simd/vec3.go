package simd

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a structure-of-arrays vector: lane i is (X[i], Y[i], Z[i]).
type Vec3[W Width] struct {
	X, Y, Z Float[W]
}

// SplatVec3 broadcasts v to every lane.
func SplatVec3[W Width](v mgl32.Vec3) Vec3[W] {
	return Vec3[W]{SplatFloat[W](v[0]), SplatFloat[W](v[1]), SplatFloat[W](v[2])}
}

// Lane returns lane i as a scalar vector.
func (v Vec3[W]) Lane(i int) mgl32.Vec3 {
	return mgl32.Vec3{v.X.Get(i), v.Y.Get(i), v.Z.Get(i)}
}

// SetLane writes lane i.
func (v *Vec3[W]) SetLane(i int, p mgl32.Vec3) {
	v.X.Set(i, p[0])
	v.Y.Set(i, p[1])
	v.Z.Set(i, p[2])
}

// Add returns the lane-wise sum.
func (v Vec3[W]) Add(o Vec3[W]) Vec3[W] {
	return Vec3[W]{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)}
}

// Sub returns the lane-wise difference.
func (v Vec3[W]) Sub(o Vec3[W]) Vec3[W] {
	return Vec3[W]{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)}
}

// Scale multiplies every component by s lane-wise.
func (v Vec3[W]) Scale(s Float[W]) Vec3[W] {
	return Vec3[W]{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

// Neg negates every component of every lane.
func (v Vec3[W]) Neg() Vec3[W] {
	return Vec3[W]{v.X.Neg(), v.Y.Neg(), v.Z.Neg()}
}

// Dot returns the per-lane dot product.
func (v Vec3[W]) Dot(o Vec3[W]) Float[W] {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y)).Add(v.Z.Mul(o.Z))
}

// Cross returns the per-lane cross product.
func (v Vec3[W]) Cross(o Vec3[W]) Vec3[W] {
	return Vec3[W]{
		X: v.Y.Mul(o.Z).Sub(v.Z.Mul(o.Y)),
		Y: v.Z.Mul(o.X).Sub(v.X.Mul(o.Z)),
		Z: v.X.Mul(o.Y).Sub(v.Y.Mul(o.X)),
	}
}

// SelectVec3 picks a where m is set and b elsewhere.
func SelectVec3[W Width](m Mask[W], a, b Vec3[W]) Vec3[W] {
	return Vec3[W]{Select(m, a.X, b.X), Select(m, a.Y, b.Y), Select(m, a.Z, b.Z)}
}

// ConcatVec3 joins two half-width vectors into one of width D.
func ConcatVec3[H, D Width](lo, hi Vec3[H]) Vec3[D] {
	return Vec3[D]{
		ConcatFloat[H, D](lo.X, hi.X),
		ConcatFloat[H, D](lo.Y, hi.Y),
		ConcatFloat[H, D](lo.Z, hi.Z),
	}
}
