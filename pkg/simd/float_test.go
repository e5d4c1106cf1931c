package simd

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFloatArithmetic(t *testing.T) {
	a := FloatOf[W4](1, -2, 3, -4)
	b := SplatFloat[W4](2)

	tests := []struct {
		name     string
		result   Float[W4]
		expected [4]float32
	}{
		{"Add", a.Add(b), [4]float32{3, 0, 5, -2}},
		{"Sub", a.Sub(b), [4]float32{-1, -4, 1, -6}},
		{"Mul", a.Mul(b), [4]float32{2, -4, 6, -8}},
		{"Div", a.Div(b), [4]float32{0.5, -1, 1.5, -2}},
		{"Neg", a.Neg(), [4]float32{-1, 2, -3, 4}},
		{"Abs", a.Abs(), [4]float32{1, 2, 3, 4}},
		{"Rcp", b.Rcp(), [4]float32{0.5, 0.5, 0.5, 0.5}},
		{"Min", a.Min(b), [4]float32{1, -2, 2, -4}},
		{"Max", a.Max(b), [4]float32{2, 2, 3, 2}},
		{"Clamp", a.Clamp(-1, 1), [4]float32{1, -1, 1, -1}},
		{"Select", Select(MaskFromBits[W4](0b0101), a, b), [4]float32{1, 2, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.expected {
				if got := tt.result.Get(i); math.Abs(float64(got-want)) > 1e-6 {
					t.Errorf("Lane %d: expected %v, got %v", i, want, got)
				}
			}
		})
	}
}

func TestFloatSignFlip(t *testing.T) {
	den := FloatOf[W4](-3, 3, -0.5, 2)
	sgn := den.SignMask()
	u := FloatOf[W4](1, 1, -1, -1)

	flipped := u.XorSign(sgn)
	expected := [4]float32{-1, 1, 1, -1}
	for i, want := range expected {
		if got := flipped.Get(i); got != want {
			t.Errorf("Lane %d: expected %v, got %v", i, want, got)
		}
	}
	abs := den.XorSign(sgn)
	for i := 0; i < 4; i++ {
		if abs.Get(i) != den.Abs().Get(i) {
			t.Errorf("Lane %d: XorSign with own sign should equal Abs", i)
		}
	}
}

func TestFloatComparisons(t *testing.T) {
	a := FloatOf[W4](1, 2, 3, 4)
	b := SplatFloat[W4](2)

	tests := []struct {
		name     string
		result   Mask[W4]
		expected uint32
	}{
		{"Lt", a.Lt(b), 0b0001},
		{"Le", a.Le(b), 0b0011},
		{"Gt", a.Gt(b), 0b1100},
		{"Ge", a.Ge(b), 0b1110},
		{"Eq", a.Eq(b), 0b0010},
		{"Ne", a.Ne(b), 0b1101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Bits(); got != tt.expected {
				t.Errorf("Expected %04b, got %04b", tt.expected, got)
			}
		})
	}
}

func TestFloatNegativeZeroIsNotNonZero(t *testing.T) {
	z := FloatOf[W4](0, float32(math.Copysign(0, -1)), 1, -1)
	if got := z.Ne(SplatFloat[W4](0)).Bits(); got != 0b1100 {
		t.Errorf("Expected %04b, got %04b", 0b1100, got)
	}
}

func TestSelectMin(t *testing.T) {
	f := FloatOf[W8](5, 1, 7, 1, 0, 3, 2, 9)

	tests := []struct {
		name     string
		valid    Mask[W8]
		expected int
	}{
		{"all lanes", MaskTrue[W8](), 4},
		{"tie goes to lowest lane", MaskFromBits[W8](0b0000_1010), 1},
		{"single lane", MaskFromBits[W8](0b1000_0000), 7},
		{"empty", MaskFalse[W8](), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.SelectMin(tt.valid); got != tt.expected {
				t.Errorf("Expected lane %d, got %d", tt.expected, got)
			}
		})
	}

	if got := f.ReduceMin(MaskFalse[W8]()); !math.IsInf(float64(got), 1) {
		t.Errorf("Expected +Inf for empty ReduceMin, got %v", got)
	}
}

func TestConcatFloat(t *testing.T) {
	d := ConcatFloat[W4, W8](FloatOf[W4](0, 1, 2, 3), FloatOf[W4](4, 5, 6, 7))
	for i := 0; i < 8; i++ {
		if d.Get(i) != float32(i) {
			t.Errorf("Lane %d: expected %d, got %v", i, i, d.Get(i))
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic concatenating into the wrong width")
		}
	}()
	ConcatFloat[W4, W16](FloatOf[W4](0, 1, 2, 3), FloatOf[W4](4, 5, 6, 7))
}

func TestIntOps(t *testing.T) {
	flags := IntOf[W4](1|2<<16, 2|1<<16, 0|2<<16, 0)
	lo := flags.And(SplatInt[W4](0xff))
	hi := flags.Shr(16).And(SplatInt[W4](0xff))

	wantLo := [4]int32{1, 2, 0, 0}
	wantHi := [4]int32{2, 1, 2, 0}
	for i := 0; i < 4; i++ {
		if lo.Get(i) != wantLo[i] || hi.Get(i) != wantHi[i] {
			t.Errorf("Lane %d: expected (%d,%d), got (%d,%d)", i, wantLo[i], wantHi[i], lo.Get(i), hi.Get(i))
		}
	}

	neg := SplatInt[W4](-1).Shr(31)
	if neg.Get(0) != 1 {
		t.Errorf("Shr should be logical, got %d", neg.Get(0))
	}

	sel := SelectInt(MaskFromBits[W4](0b0011), SplatInt[W4](7), SplatInt[W4](9))
	if got := sel.Eq(SplatInt[W4](7)).Bits(); got != 0b0011 {
		t.Errorf("Expected %04b, got %04b", 0b0011, got)
	}
	if got := ConcatInt[W4, W8](SplatInt[W4](1), SplatInt[W4](2)).Get(5); got != 2 {
		t.Errorf("Expected 2 in the high half, got %d", got)
	}
}

func TestVec3Lanes(t *testing.T) {
	a := SplatVec3[W4](mgl32.Vec3{1, 0, 0})
	b := SplatVec3[W4](mgl32.Vec3{0, 1, 0})
	b.SetLane(3, mgl32.Vec3{0, 0, 1})

	c := a.Cross(b)
	if got := c.Lane(0); !got.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Expected +z, got %v", got)
	}
	if got := c.Lane(3); !got.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Expected -y, got %v", got)
	}
	if got := a.Dot(b).Get(0); got != 0 {
		t.Errorf("Expected zero dot, got %v", got)
	}
	s := a.Add(b).Scale(SplatFloat[W4](2)).Sub(b)
	if got := s.Lane(1); !got.ApproxEqual(mgl32.Vec3{2, 1, 0}) {
		t.Errorf("Expected (2,1,0), got %v", got)
	}
}

func TestSelectVec3(t *testing.T) {
	a := SplatVec3[W4](mgl32.Vec3{1, 2, 3})
	b := SplatVec3[W4](mgl32.Vec3{-1, -2, -3})
	r := SelectVec3(MaskOf[W4](true, false, false, true), a, b)

	for i, expected := range []mgl32.Vec3{{1, 2, 3}, {-1, -2, -3}, {-1, -2, -3}, {1, 2, 3}} {
		if got := r.Lane(i); got != expected {
			t.Errorf("Lane %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestHostTarget(t *testing.T) {
	h := Host()
	if h.NativeLanes < 1 || h.NativeLanes > MaxLanes {
		t.Fatalf("Native lane count out of range: %d", h.NativeLanes)
	}
	if h.Emulated(1) {
		t.Error("A single lane is never emulated")
	}
	if !h.Emulated(MaxLanes + 1) {
		t.Error("Widths beyond MaxLanes are always emulated")
	}
}
