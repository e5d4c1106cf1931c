package texture

import (
	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/intersect"
	"github.com/go-gl/mathgl/mgl32"
)

// TexCoordFunc returns the texture coordinates of primitive primID at
// (u, v), or false when there are none.
type TexCoordFunc func(primID int32, u, v float32) (mgl32.Vec2, bool)

// AlphaFilter rejects hits where the texture's alpha is below threshold.
// Hits without texture coordinates are kept.
func AlphaFilter(tex *Texture, coords TexCoordFunc, threshold float32) intersect.FilterFunc {
	return func(_ *core.Ray, hit core.HitRecord) bool {
		st, ok := coords(hit.PrimID, hit.U, hit.V)
		if !ok {
			return true
		}
		return tex.Alpha(st[0], st[1]) >= threshold
	}
}
