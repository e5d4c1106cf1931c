package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects the debug shading applied to primary hits.
type Mode int

const (
	ModeEyeLight Mode = iota
	ModeWireframe
	ModeUV
	ModeNg
	ModeGeomID
	ModeGeomIDPrimID
	ModeCycles
	ModeUV16
	ModeAmbientOcclusion
)

var modeNames = []string{
	ModeEyeLight:         "eyelight",
	ModeWireframe:        "wireframe",
	ModeUV:               "uv",
	ModeNg:               "ng",
	ModeGeomID:           "geomid",
	ModeGeomIDPrimID:     "geomid-primid",
	ModeCycles:           "cycles",
	ModeUV16:             "uv16",
	ModeAmbientOcclusion: "ao",
}

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ModeNames lists every mode name in declaration order.
func ModeNames() []string {
	return append([]string(nil), modeNames...)
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q (want one of %s)", name, strings.Join(modeNames, ", "))
}

const (
	wireframeBorder  = 0.05
	uv16Repeats      = 16
	aoSamples        = 64
	aoTNear          = 0.001
	cyclesScale      = 1e-3 // red per nanosecond; one microsecond saturates
	randomColorScale = 1.0 / 255
)

// randomColor hashes an ID to a stable colour.
func randomColor(id int32) mgl32.Vec3 {
	r := ((id + 13) * 17 * 23) >> 8 & 255
	g := ((id + 15) * 11 * 13) >> 8 & 255
	b := ((id + 17) * 7 * 19) >> 8 & 255
	return mgl32.Vec3{float32(r) * randomColorScale, float32(g) * randomColorScale, float32(b) * randomColorScale}
}
