package texture

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func checker() *Texture {
	// 2x2: red, green / blue, transparent white
	tex, err := NewRGBA8(2, 2, []uint8{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 0,
	})
	if err != nil {
		panic(err)
	}
	return tex
}

func TestTexel3f_Wraps(t *testing.T) {
	tex := checker()
	tests := []struct {
		name     string
		s, t     float32
		expected mgl32.Vec3
	}{
		{"origin", 0, 0, mgl32.Vec3{1, 0, 0}},
		{"second column", 0.75, 0.25, mgl32.Vec3{0, 1, 0}},
		{"second row", 0.25, 0.5, mgl32.Vec3{0, 0, 1}},
		{"wraps past one", 1.25, 1.25, mgl32.Vec3{1, 0, 0}},
		{"wraps negative", -0.25, -0.25, mgl32.Vec3{1, 1, 1}},
		{"wraps negative column", -0.75, 0.1, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Texel3f(tt.s, tt.t)
			if !got.ApproxEqual(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTexel1f(t *testing.T) {
	tex := checker()
	if got := tex.Texel1f(0, 0); !near(got, 1) {
		t.Errorf("Expected red channel 1, got %v", got)
	}
	if got := tex.Texel1f(0.6, 0); !near(got, 0) {
		t.Errorf("Expected red channel 0, got %v", got)
	}

	f, err := NewFloat32(2, 1, []float32{0.25, 0.75})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Texel1f(0.6, 3.2); !near(got, 0.75) {
		t.Errorf("Expected 0.75, got %v", got)
	}
	if got := f.Texel3f(0, 0); got != (mgl32.Vec3{}) {
		t.Errorf("Expected black for float texture, got %v", got)
	}

	var none *Texture
	if none.Texel1f(0.5, 0.5) != 0 || none.Texel3f(0.5, 0.5) != (mgl32.Vec3{}) {
		t.Error("Expected nil texture to read zero")
	}
}

func TestNew_ValidatesSize(t *testing.T) {
	if _, err := NewRGBA8(2, 2, make([]uint8, 15)); err == nil {
		t.Error("Expected RGBA8 size error")
	}
	if _, err := NewFloat32(0, 2, nil); err == nil {
		t.Error("Expected Float32 size error")
	}
	if RGBA8.String() != "RGBA8" || Format(7).String() != "Format(7)" {
		t.Error("Unexpected format names")
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	full := FromImage(img, 0)
	if full.Width != 8 || full.Height != 4 || len(full.Bytes) != 8*4*4 {
		t.Fatalf("Unexpected size %dx%d (%d bytes)", full.Width, full.Height, len(full.Bytes))
	}
	if got := full.Texel3f(0.5, 0.5); !got.ApproxEqualThreshold(mgl32.Vec3{200.0 / 255, 100.0 / 255, 50.0 / 255}, 1e-3) {
		t.Errorf("Unexpected texel %v", got)
	}

	small := FromImage(img, 4)
	if small.Width != 4 || small.Height != 2 {
		t.Errorf("Expected downscale to 4x2, got %dx%d", small.Width, small.Height)
	}
	if got := small.Texel3f(0.5, 0.5); !got.ApproxEqualThreshold(mgl32.Vec3{200.0 / 255, 100.0 / 255, 50.0 / 255}, 1e-2) {
		t.Errorf("Uniform image changed colour when scaled: %v", got)
	}
}

func TestTexCoords(t *testing.T) {
	t0, t1, t2, t3 := mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1}
	if got := TriangleTexCoords(t0, t1, t2, 0.25, 0.5); !got.ApproxEqual(mgl32.Vec2{0.75, 0.5}) {
		t.Errorf("Unexpected triangle coords %v", got)
	}
	if got := QuadTexCoords(t0, t1, t2, t3, 0.25, 0.5); !got.ApproxEqual(mgl32.Vec2{0.25, 0.5}) {
		t.Errorf("Unexpected quad coords %v", got)
	}
	if got := QuadTexCoords(t0, t1, t2, t3, 1, 1); !got.ApproxEqual(t2) {
		t.Errorf("Expected corner t2, got %v", got)
	}
}

func TestAlphaFilter(t *testing.T) {
	tex := checker()
	coords := func(primID int32, u, v float32) (mgl32.Vec2, bool) {
		if primID < 0 {
			return mgl32.Vec2{}, false
		}
		return mgl32.Vec2{u, v}, true
	}
	filter := AlphaFilter(tex, coords, 0.5)

	tests := []struct {
		name     string
		hit      core.HitRecord
		expected bool
	}{
		{"opaque texel", core.HitRecord{U: 0.1, V: 0.1}, true},
		{"transparent texel", core.HitRecord{U: 0.9, V: 0.9}, false},
		{"no coordinates", core.HitRecord{PrimID: -1, U: 0.9, V: 0.9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter(nil, tt.hit); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
