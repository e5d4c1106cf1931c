package intersect

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

func TestTrianglesIntersector1_Intersect(t *testing.T) {
	tri := referenceTriangle(7, 42)
	batch := geometry.PackTriangles[simd.W4]([]geometry.Triangle{tri})

	tests := []struct {
		name      string
		cull      bool
		ray       core.Ray
		shouldHit bool
		expectedT float32
		expectedU float32
		expectedV float32
	}{
		{"from behind the plane", false, core.NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}), true, 5, 0.25, 0.5},
		{"from the front", false, downRay(0, 0), true, 5, 0.25, 0.5},
		{"culled from behind", true, core.NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}), false, 0, 0, 0},
		{"kept from the front", true, downRay(0, 0), true, 5, 0.25, 0.5},
		{"segment too short", false, core.NewRaySegment(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, 0, 4), false, 0, 0, 0},
		{"segment starts past the plane", false, core.NewRaySegment(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, 6, 10), false, 0, 0, 0},
		{"unnormalized direction", false, core.NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -2}), true, 2.5, 0.25, 0.5},
		{"vertex v0", false, downRay(-1, -1), true, 5, 0, 0},
		{"vertex v1", false, downRay(1, -1), true, 5, 1, 0},
		{"vertex v2", false, downRay(0, 1), true, 5, 0, 1},
		{"outside", false, downRay(1, 1), false, 0, 0, 0},
		{"parallel", false, core.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}), false, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := tt.ray
			before := ray
			var hit bool
			if tt.cull {
				ti, err := NewTrianglesIntersector1[simd.W4, CullBackfaces]()
				if err != nil {
					t.Fatal(err)
				}
				hit = ti.Intersect(&ray, &batch, nil)
			} else {
				ti, err := NewTrianglesIntersector1[simd.W4, NoCulling]()
				if err != nil {
					t.Fatal(err)
				}
				hit = ti.Intersect(&ray, &batch, nil)
			}

			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hit)
			}
			if !hit {
				if ray != before {
					t.Errorf("Ray modified on a miss: %v", ray)
				}
				return
			}
			if !near(ray.TFar, tt.expectedT, 1e-5) {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, ray.TFar)
			}
			if !near(ray.U, tt.expectedU, 1e-5) || !near(ray.V, tt.expectedV, 1e-5) {
				t.Errorf("Expected (u,v)=(%v,%v), got (%v,%v)", tt.expectedU, tt.expectedV, ray.U, ray.V)
			}
			if !nearVec(ray.Ng, mgl32.Vec3{0, 0, -4}, 1e-5) {
				t.Errorf("Expected Ng (0,0,-4), got %v", ray.Ng)
			}
			if ray.GeomID != 7 || ray.PrimID != 42 {
				t.Errorf("Expected ids (7,42), got (%d,%d)", ray.GeomID, ray.PrimID)
			}
			rec, _ := ray.Record()
			if want := tri.Interpolate(ray.U, ray.V); !nearVec(rec.Point, want, 1e-4) {
				t.Errorf("Hit point %v does not match barycentric point %v", rec.Point, want)
			}
		})
	}
}

func TestTrianglesIntersector1_Centroid(t *testing.T) {
	tri := referenceTriangle(0, 0)
	batch := geometry.PackTriangles[simd.W8]([]geometry.Triangle{tri})
	ti, err := NewTrianglesIntersector1[simd.W8, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	c := tri.Centroid()
	ray := downRay(c[0], c[1])
	if !ti.Intersect(&ray, &batch, nil) {
		t.Fatal("Expected centroid hit")
	}
	if !near(ray.U, 1.0/3, 1e-5) || !near(ray.V, 1.0/3, 1e-5) {
		t.Errorf("Expected (1/3,1/3), got (%v,%v)", ray.U, ray.V)
	}
}

func TestTrianglesIntersector1_ClosestAcrossLanes(t *testing.T) {
	lift := func(tri geometry.Triangle, z float32) geometry.Triangle {
		off := mgl32.Vec3{0, 0, z}
		return geometry.NewTriangle(tri.V0.Add(off), tri.V1.Add(off), tri.V2.Add(off), tri.GeomID, tri.PrimID)
	}
	tris := []geometry.Triangle{
		lift(referenceTriangle(0, 0), -2),
		lift(referenceTriangle(1, 1), 1),
		lift(referenceTriangle(2, 2), 0),
	}
	batch := geometry.PackTriangles[simd.W4](tris)
	ti, err := NewTrianglesIntersector1[simd.W4, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	ray := downRay(0, 0)
	if !ti.Intersect(&ray, &batch, nil) {
		t.Fatal("Expected hit")
	}
	if ray.GeomID != 1 || !near(ray.TFar, 4, 1e-5) {
		t.Errorf("Expected geometry 1 at t=4, got %d at t=%v", ray.GeomID, ray.TFar)
	}

	// A second pass cannot move the hit further away.
	if ti.Intersect(&ray, &batch, nil) {
		t.Error("Expected no closer hit on the second pass")
	}
	if ray.GeomID != 1 {
		t.Errorf("Hit changed to geometry %d", ray.GeomID)
	}
}

func TestTrianglesIntersector1_Occluded(t *testing.T) {
	batch := geometry.PackTriangles[simd.W4]([]geometry.Triangle{referenceTriangle(0, 0)})
	ti, err := NewTrianglesIntersector1[simd.W4, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	ray := downRay(0, 0)
	before := ray
	if !ti.Occluded(&ray, &batch, nil) {
		t.Error("Expected occlusion")
	}
	if ray != before {
		t.Errorf("Occluded modified the ray: %v", ray)
	}

	short := core.NewRaySegment(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, 0, 4)
	if ti.Occluded(&short, &batch, nil) {
		t.Error("Expected no occlusion before the plane")
	}
}

func TestTrianglesIntersector1_SharedDiagonal(t *testing.T) {
	q := unitQuad(0, 0)
	batch := geometry.PackTriangles[simd.W4]([]geometry.Triangle{q.Half(0), q.Half(1)})
	ti, err := NewTrianglesIntersector1[simd.W4, CullBackfaces]()
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []float32{-1, -0.75, -0.5, -0.25, 0, 0.125, 0.5, 0.875, 1} {
		ray := downRay(s, s)
		if !ti.Occluded(&ray, &batch, nil) {
			t.Errorf("Ray through diagonal point (%v,%v) leaked", s, s)
		}
	}
}

func TestIntersectorK_MatchesSingleRay(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	tris := randomTriangles(random, 4)
	batch := geometry.PackTriangles[simd.W4](tris)

	single, err := NewTrianglesIntersector1[simd.W4, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}
	packed, err := NewTrianglesIntersectorK[simd.W4, simd.W8, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	hits := 0
	for round := 0; round < 64; round++ {
		rays := make([]core.Ray, 8)
		for k := range rays {
			rays[k] = randomRay(random)
		}
		valid := simd.MaskFromBits[simd.W8](uint32(random.Intn(256)))
		p := packet[simd.W8](rays)
		got := packed.Intersect(valid, &p, &batch, nil)

		for k := range rays {
			want := rays[k]
			if !valid.Get(k) {
				if p.Ray(k) != want {
					t.Fatalf("Inactive lane %d modified", k)
				}
				continue
			}
			if single.Intersect(&want, &batch, nil) {
				hits++
			}
			if got.Get(k) != want.Hit() {
				t.Fatalf("Lane %d: expected hit=%v, got %v", k, want.Hit(), got.Get(k))
			}
			assertSameHit(t, "packet lane", want, p.Ray(k))
		}
	}
	if hits == 0 {
		t.Fatal("Random scene produced no hits")
	}
}

func TestIntersectorK_OccludedShortCircuits(t *testing.T) {
	tris := []geometry.Triangle{referenceTriangle(0, 0), referenceTriangle(1, 1)}
	batch := geometry.PackTriangles[simd.W4](tris)
	ti, err := NewTrianglesIntersectorK[simd.W4, simd.W4, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	rays := []core.Ray{downRay(0, 0), downRay(5, 5), downRay(0, -0.5), downRay(0, 0)}
	p := packet[simd.W4](rays)
	valid := simd.MaskOf[simd.W4](true, true, true, false)
	before := p

	got := ti.Occluded(valid, &p, &batch, nil)
	if got.Bits() != 0b0101 {
		t.Errorf("Expected lanes 0, 2 occluded, got %v", got)
	}
	if p != before {
		t.Error("Occluded modified the packet")
	}
}

func TestIntersectorK_Intersect1(t *testing.T) {
	tris := []geometry.Triangle{referenceTriangle(3, 9)}
	batch := geometry.PackTriangles[simd.W4](tris)
	ti, err := NewTrianglesIntersectorK[simd.W4, simd.W4, NoCulling]()
	if err != nil {
		t.Fatal(err)
	}

	p := packet[simd.W4]([]core.Ray{downRay(5, 5), downRay(0, 0)})
	if ti.Occluded1(&p, 0, &batch, nil) {
		t.Error("Lane 0 should miss")
	}
	if !ti.Occluded1(&p, 1, &batch, nil) {
		t.Error("Lane 1 should be occluded")
	}
	if !ti.Intersect1(&p, 1, &batch, nil) {
		t.Fatal("Lane 1 should hit")
	}
	if r := p.Ray(1); r.GeomID != 3 || r.PrimID != 9 || !near(r.TFar, 5, 1e-5) {
		t.Errorf("Unexpected lane 1 result %v", r)
	}
	if p.HitMask().Bits() != 0b0010 {
		t.Errorf("Expected only lane 1 hit, got %v", p.HitMask())
	}

	// Kernel-level single lane entry point with an explicit epilog.
	kernel := MustIntersectorK[simd.W4, simd.W4, NoCulling]()
	q := packet[simd.W4]([]core.Ray{downRay(0, 0)})
	epilog := ClosestHit1K[simd.W4, simd.W4]{Rays: &q, Lane: 0, GeomIDs: batch.GeomIDs, PrimIDs: batch.PrimIDs}
	if !kernel.Intersect1(batch.Active(), &q, 0, batch.V0, batch.E1, batch.E2, batch.Ng,
		simd.SplatFloat[simd.W4](1), simd.SplatInt[simd.W4](geometry.IdentityRotation), epilog) {
		t.Fatal("Expected lane 0 hit")
	}
	if r := q.Ray(0); r.GeomID != 3 || !near(r.U, 0.25, 1e-5) || !near(r.V, 0.5, 1e-5) {
		t.Errorf("Unexpected committed lane %v", r)
	}
}

func TestIntersectorK_Culling(t *testing.T) {
	tri := referenceTriangle(0, 0)
	kernel := MustIntersectorK[simd.W4, simd.W4, CullBackfaces]()

	rays := []core.Ray{
		downRay(0, 0),
		core.NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}),
	}
	p := packet[simd.W4](rays)
	epilog := ClosestHitK[simd.W4]{Rays: &p, GeomID: 0, PrimID: 0}
	got := kernel.IntersectTriangleK(simd.FirstLanes[simd.W4](2), &p, tri.V0, tri.V1, tri.V2,
		geometry.IdentityRotation, 1, epilog)
	if got.Bits() != 0b0001 {
		t.Errorf("Expected only the front-facing lane, got %v", got)
	}
}

func TestConstructors_RejectUnsupportedWidths(t *testing.T) {
	if _, err := NewIntersector1[w3, NoCulling](); !errors.Is(err, simd.ErrUnsupportedWidth) {
		t.Errorf("Expected ErrUnsupportedWidth, got %v", err)
	}
	if _, err := NewIntersectorK[simd.W4, w3, NoCulling](); !errors.Is(err, simd.ErrUnsupportedWidth) {
		t.Errorf("Expected ErrUnsupportedWidth, got %v", err)
	}
	if _, err := NewPairsIntersector1[simd.W4, simd.W4, NoCulling](); !errors.Is(err, simd.ErrUnsupportedWidth) {
		t.Errorf("Expected ErrUnsupportedWidth for non-doubled width, got %v", err)
	}
	if _, err := NewPairsIntersector1[simd.W16, simd.W16, NoCulling](); err == nil {
		t.Error("Expected error for 32 lanes")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected MustIntersector1 to panic")
		}
	}()
	MustIntersector1[w3, NoCulling]()
}
