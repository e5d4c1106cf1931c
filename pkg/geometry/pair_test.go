package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
)

func TestRotation(t *testing.T) {
	tests := []struct {
		name         string
		flags        int32
		u, v         float32
		expectedU    float32
		expectedV    float32
		expectedSlot [2]int
	}{
		{"identity", IdentityRotation, 0.2, 0.3, 0.2, 0.3, [2]int{SlotU, SlotV}},
		{"first pair half", DefaultPairFlags()[0], 0.2, 0.3, 0.5, 0.3, [2]int{SlotW, SlotV}},
		{"second pair half", DefaultPairFlags()[1], 0.2, 0.3, 0.3, 0.5, [2]int{SlotV, SlotW}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			su, sv := RotationSlots(tt.flags)
			if [2]int{su, sv} != tt.expectedSlot {
				t.Errorf("Expected slots %v, got (%d,%d)", tt.expectedSlot, su, sv)
			}
			u, v := Rotate(tt.flags, tt.u, tt.v)
			if math.Abs(float64(u-tt.expectedU)) > 1e-6 || math.Abs(float64(v-tt.expectedV)) > 1e-6 {
				t.Errorf("Expected (%v,%v), got (%v,%v)", tt.expectedU, tt.expectedV, u, v)
			}
		})
	}

	if got := DefaultPairFlags(); got != [2]int32{1 | 2<<16, 2 | 1<<16} {
		t.Errorf("Unexpected default pair flags %#x", got)
	}
}

func TestNewQuad(t *testing.T) {
	p := NewQuad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0}, 3, 8)
	if p.PrimIDs != [2]int32{8, 9} || p.GeomIDs != [2]int32{3, 3} {
		t.Errorf("Unexpected IDs %v %v", p.GeomIDs, p.PrimIDs)
	}

	h1 := p.Half(1)
	if h1.V0 != p.V0 || h1.V1 != p.V2 || h1.V2 != p.V3 || h1.PrimID != 9 {
		t.Errorf("Second half should be (v0,v2,v3), got %+v", h1)
	}

	// Both halves of a planar quad share the same counter-clockwise normal
	if n0, n1 := p.Half(0).Normal(), p.Half(1).Normal(); !n0.ApproxEqual(n1) {
		t.Errorf("Half normals differ: %v vs %v", n0, n1)
	}

	vtx0, vtx1, vtx2, flip := p.KernelVertices(0)
	if vtx0 != p.V1 || vtx1 != p.V0 || vtx2 != p.V2 || flip != -1 {
		t.Errorf("Unexpected kernel layout for the first half")
	}
	vtx0, _, _, flip = p.KernelVertices(1)
	if vtx0 != p.V3 || flip != 1 {
		t.Errorf("Unexpected kernel layout for the second half")
	}
}

func TestPackPairs(t *testing.T) {
	pairs := []TrianglePair{
		NewQuad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0}, 0, 0),
		NewQuad(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{3, 1, 0}, mgl32.Vec3{2, 1, 0}, 0, 2),
	}
	b := PackPairs[simd.W4](pairs)
	if b.Count() != 2 || b.Active().Bits() != 0b0011 {
		t.Fatalf("Unexpected batch size %d / %v", b.Count(), b.Active())
	}
	if got := b.Pair(1); got != pairs[1] {
		t.Errorf("Lane 1 round trip mismatch: %+v", got)
	}
	if got := b.PrimIDs[1].Get(1); got != 3 {
		t.Errorf("Expected second half primID 3, got %d", got)
	}
}

func TestPairTriangles(t *testing.T) {
	tests := []struct {
		name            string
		tris            [][3]int
		expectedPairs   int
		expectedSingles []int
	}{
		{"split quad", [][3]int{{0, 1, 2}, {0, 2, 3}}, 1, nil},
		{"rotated second triangle", [][3]int{{0, 1, 2}, {2, 3, 0}}, 1, nil},
		{"no shared edge", [][3]int{{0, 1, 2}, {3, 4, 5}}, 0, []int{0, 1}},
		{"same orientation edge", [][3]int{{0, 1, 2}, {0, 1, 3}}, 0, []int{0, 1}},
		{"odd count", [][3]int{{0, 1, 2}, {0, 2, 3}, {4, 5, 6}}, 1, []int{2}},
		{"degenerate", [][3]int{{0, 0, 2}, {0, 2, 3}}, 0, []int{0, 1}},
		{"mirror image", [][3]int{{0, 1, 2}, {1, 0, 2}}, 0, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, singles := PairTriangles(tt.tris)
			if len(pairs) != tt.expectedPairs {
				t.Errorf("Expected %d pairs, got %d", tt.expectedPairs, len(pairs))
			}
			if len(singles) != len(tt.expectedSingles) {
				t.Fatalf("Expected singles %v, got %v", tt.expectedSingles, singles)
			}
			for i := range singles {
				if singles[i] != tt.expectedSingles[i] {
					t.Errorf("Expected singles %v, got %v", tt.expectedSingles, singles)
				}
			}
		})
	}
}

func TestPairTriangles_QuadLayout(t *testing.T) {
	pairs, _ := PairTriangles([][3]int{{0, 1, 2}, {0, 2, 3}})
	p := pairs[0]
	if p.Quad != [4]int{0, 1, 2, 3} {
		t.Errorf("Expected quad 0,1,2,3, got %v", p.Quad)
	}
	if p.Flags != DefaultPairFlags() {
		t.Errorf("Split quad should use the default flags, got %#x", p.Flags)
	}

	// Halves keep the winding of the source triangles
	pairs, _ = PairTriangles([][3]int{{5, 6, 7}, {7, 8, 5}})
	q := pairs[0].Quad
	first := [3]int{q[0], q[1], q[2]}
	second := [3]int{q[0], q[2], q[3]}
	if !sameCycle(first, [3]int{5, 6, 7}) || !sameCycle(second, [3]int{7, 8, 5}) {
		t.Errorf("Quad %v does not preserve winding", q)
	}
}

func sameCycle(a, b [3]int) bool {
	for r := 0; r < 3; r++ {
		if a[0] == b[r] && a[1] == b[(r+1)%3] && a[2] == b[(r+2)%3] {
			return true
		}
	}
	return false
}
