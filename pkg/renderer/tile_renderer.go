package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

// TileRenderer shades the pixels of a tile with one debug mode. It keeps
// scratch ray buffers, so each worker owns its own.
type TileRenderer struct {
	tracer rayTracer
	camera *Camera
	mode   Mode

	rays    []core.Ray
	cycles  []float32 // nanoseconds per pixel, cycles mode only
	shadow  []core.Ray
	blocked []bool
}

// newTileRenderer creates a tile renderer tracing through tracer.
func newTileRenderer(tracer rayTracer, camera *Camera, mode Mode) *TileRenderer {
	return &TileRenderer{
		tracer:  tracer,
		camera:  camera,
		mode:    mode,
		shadow:  make([]core.Ray, aoSamples),
		blocked: make([]bool, aoSamples),
	}
}

// RenderTileBounds renders the pixels within bounds into frame.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, frame *Framebuffer) TileStats {
	stats := TileStats{Pixels: bounds.Dx() * bounds.Dy()}

	tr.rays = tr.rays[:0]
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr.rays = append(tr.rays, tr.camera.GetRay(float32(x)+0.5, float32(y)+0.5))
		}
	}

	switch tr.mode {
	case ModeCycles:
		// each pixel is timed on its own
		tr.cycles = tr.cycles[:0]
		for i := range tr.rays {
			start := time.Now()
			tr.tracer.intersect(tr.rays[i : i+1])
			tr.cycles = append(tr.cycles, float32(time.Since(start).Nanoseconds()))
		}
		stats.Rays += len(tr.rays)
	case ModeUV16:
		for rep := 0; rep < uv16Repeats; rep++ {
			for i := range tr.rays {
				tr.rays[i].Reset(core.Infinity)
			}
			tr.tracer.intersect(tr.rays)
		}
		stats.Rays += uv16Repeats * len(tr.rays)
	default:
		tr.tracer.intersect(tr.rays)
		stats.Rays += len(tr.rays)
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := &tr.rays[i]
			i++
			if ray.Hit() {
				stats.Hits++
			}
			if tr.mode == ModeCycles {
				frame.Set(x, y, mgl32.Vec3{tr.cycles[i-1] * cyclesScale, 0, 0})
				continue
			}
			frame.Set(x, y, tr.shade(ray, x, y, &stats))
		}
	}
	return stats
}

// facing returns |dot(dir, normalize(Ng))| for a ray with a unit direction.
func facing(ray *core.Ray) float32 {
	return float32(math.Abs(float64(ray.Direction.Dot(ray.Ng.Normalize()))))
}

func (tr *TileRenderer) shade(ray *core.Ray, x, y int, stats *TileStats) mgl32.Vec3 {
	if tr.mode == ModeWireframe {
		if !ray.Hit() {
			return mgl32.Vec3{1, 1, 1}
		}
		c := float32(1)
		if ray.U < wireframeBorder || ray.V < wireframeBorder || 1-ray.U-ray.V < wireframeBorder {
			c = 0
		}
		return mgl32.Vec3{c, c, c}.Mul(facing(ray))
	}

	if !ray.Hit() {
		return mgl32.Vec3{}
	}

	switch tr.mode {
	case ModeUV, ModeUV16:
		return mgl32.Vec3{ray.U, ray.V, 1 - ray.U - ray.V}
	case ModeNg:
		n := ray.Ng
		return mgl32.Vec3{abs32(n[0]), abs32(n[1]), abs32(n[2])}.Normalize()
	case ModeGeomID:
		return randomColor(ray.GeomID).Mul(facing(ray))
	case ModeGeomIDPrimID:
		return randomColor(ray.GeomID ^ ray.PrimID).Mul(facing(ray))
	case ModeAmbientOcclusion:
		return tr.ambientOcclusion(ray, x, y, stats)
	default:
		f := facing(ray)
		return mgl32.Vec3{f, f, f}
	}
}

// ambientOcclusion traces aoSamples shadow rays from the hit point along
// directions drawn from the per-pixel LCG.
func (tr *TileRenderer) ambientOcclusion(ray *core.Ray, x, y int, stats *TileStats) mgl32.Vec3 {
	col := min(1, 0.3+0.8*facing(ray))
	hitPos := ray.At(ray.TFar)

	lcg := core.NewLCG(x, y)
	for i := range tr.shadow {
		tr.shadow[i] = core.NewRaySegment(hitPos, lcg.NextDirection(), aoTNear, core.Infinity)
	}
	tr.tracer.occluded(tr.shadow, tr.blocked)
	stats.ShadowRays += len(tr.shadow)

	open := 0
	for _, b := range tr.blocked {
		if !b {
			open++
		}
	}
	intensity := col * float32(open) / aoSamples
	return mgl32.Vec3{intensity, intensity, intensity}
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
