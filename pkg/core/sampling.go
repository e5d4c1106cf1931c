package core

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler provides random numbers for ray generation.
// Can be swapped out for deterministic testing
type Sampler interface {
	Get1D() float32
	Get2D() mgl32.Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() mgl32.Vec2 {
	return mgl32.Vec2{r.random.Float32(), r.random.Float32()}
}

// SampleOnUnitSphere maps a 2D sample to a uniform direction on the unit sphere
func SampleOnUnitSphere(sample mgl32.Vec2) mgl32.Vec3 {
	z := 1 - 2*sample[0]
	r := float32(math.Sqrt(float64(max(0, 1-z*z))))
	phi := 2 * math.Pi * float64(sample[1])
	return mgl32.Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

// SamplePointInBox maps a sample from [0,1)^3 to a point inside box.
func SamplePointInBox(box AABB, sample mgl32.Vec3) mgl32.Vec3 {
	s := box.Size()
	return mgl32.Vec3{
		box.Min[0] + s[0]*sample[0],
		box.Min[1] + s[1]*sample[1],
		box.Min[2] + s[2]*sample[2],
	}
}

// LCG is the linear congruential generator used for ambient occlusion
// directions. Arithmetic wraps at 32 bits.
type LCG struct {
	seed int32
}

// NewLCG seeds a generator for pixel (x, y).
func NewLCG(x, y int) *LCG {
	return &LCG{seed: int32(34*x + 12*y)}
}

// Next advances the generator and returns a value in (-1, 1) with 1e-4 resolution.
func (g *LCG) Next() float32 {
	g.seed = 1103515245*g.seed + 12345
	return float32(g.seed%10000) * (1.0 / 10000)
}

// NextDirection draws three successive values as a direction (not normalized).
func (g *LCG) NextDirection() mgl32.Vec3 {
	x := g.Next()
	y := g.Next()
	z := g.Next()
	return mgl32.Vec3{x, y, z}
}
