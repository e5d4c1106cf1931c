package intersect

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

// w3 is a lane width the intersectors must reject.
type w3 struct{}

func (w3) Lanes() int { return 3 }

// referenceTriangle is the triangle used throughout the kernel tests.
func referenceTriangle(geomID, primID int32) geometry.Triangle {
	return geometry.NewTriangle(
		mgl32.Vec3{-1, -1, 0},
		mgl32.Vec3{1, -1, 0},
		mgl32.Vec3{0, 1, 0},
		geomID, primID,
	)
}

// unitQuad is counter-clockwise when seen from +z.
func unitQuad(geomID, primID int32) geometry.TrianglePair {
	return geometry.NewQuad(
		mgl32.Vec3{-1, -1, 0},
		mgl32.Vec3{1, -1, 0},
		mgl32.Vec3{1, 1, 0},
		mgl32.Vec3{-1, 1, 0},
		geomID, primID,
	)
}

func downRay(x, y float32) core.Ray {
	return core.NewRay(mgl32.Vec3{x, y, 5}, mgl32.Vec3{0, 0, -1})
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func nearVec(a, b mgl32.Vec3, tol float32) bool {
	return near(a[0], b[0], tol) && near(a[1], b[1], tol) && near(a[2], b[2], tol)
}

func assertSameHit(t *testing.T, label string, want, got core.Ray) {
	t.Helper()
	if want.GeomID != got.GeomID || want.PrimID != got.PrimID {
		t.Fatalf("%s: expected ids (%d,%d), got (%d,%d)", label, want.GeomID, want.PrimID, got.GeomID, got.PrimID)
	}
	if !want.Hit() {
		return
	}
	if !near(want.TFar, got.TFar, 1e-4) || !near(want.U, got.U, 1e-4) || !near(want.V, got.V, 1e-4) {
		t.Errorf("%s: expected (t=%v,u=%v,v=%v), got (t=%v,u=%v,v=%v)",
			label, want.TFar, want.U, want.V, got.TFar, got.U, got.V)
	}
	if !nearVec(want.Ng, got.Ng, 1e-4) {
		t.Errorf("%s: expected Ng %v, got %v", label, want.Ng, got.Ng)
	}
}

// randomTriangles returns n triangles scattered in front of the z=5 plane.
func randomTriangles(random *rand.Rand, n int) []geometry.Triangle {
	point := func() mgl32.Vec3 {
		return mgl32.Vec3{random.Float32()*4 - 2, random.Float32()*4 - 2, random.Float32()*2 - 1}
	}
	tris := make([]geometry.Triangle, n)
	for i := range tris {
		tris[i] = geometry.NewTriangle(point(), point(), point(), int32(i), int32(100+i))
	}
	return tris
}

func randomRay(random *rand.Rand) core.Ray {
	origin := mgl32.Vec3{random.Float32()*4 - 2, random.Float32()*4 - 2, 5}
	target := mgl32.Vec3{random.Float32()*4 - 2, random.Float32()*4 - 2, 0}
	return core.NewRay(origin, target.Sub(origin))
}

func packet[K simd.Width](rays []core.Ray) core.RayK[K] {
	p := core.NewRayK[K]()
	for k, r := range rays {
		p.SetRay(k, r)
	}
	return p
}

// testGeoms is an in-memory Geometries.
type testGeoms struct {
	masks   map[int32]uint32
	filters map[int32]FilterFunc
}

func (g testGeoms) Mask(geomID int32) uint32 {
	if m, ok := g.masks[geomID]; ok {
		return m
	}
	return math.MaxUint32
}

func (g testGeoms) Filter(geomID int32) FilterFunc { return g.filters[geomID] }
