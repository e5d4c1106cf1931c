package scene

import (
	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/intersect"
	"github.com/df07/go-raykernel/pkg/simd"
)

// leafTracer runs the kernels over one packed leaf. The culling policy is
// fixed when the tracer is built.
type leafTracer interface {
	closestHit(ray *core.Ray, l *leaf, geoms intersect.Geometries) bool
	occluded(ray *core.Ray, l *leaf, geoms intersect.Geometries) bool
}

type kernels[C intersect.Culling] struct {
	tris  *intersect.TrianglesIntersector1[simd.W4, C]
	pairs *intersect.PairsIntersector1[simd.W4, simd.W8, C]
}

func newLeafTracer(cull bool) (leafTracer, error) {
	if cull {
		return newKernels[intersect.CullBackfaces]()
	}
	return newKernels[intersect.NoCulling]()
}

func newKernels[C intersect.Culling]() (*kernels[C], error) {
	tris, err := intersect.NewTrianglesIntersector1[simd.W4, C]()
	if err != nil {
		return nil, err
	}
	pairs, err := intersect.NewPairsIntersector1[simd.W4, simd.W8, C]()
	if err != nil {
		return nil, err
	}
	return &kernels[C]{tris: tris, pairs: pairs}, nil
}

func (t *kernels[C]) closestHit(ray *core.Ray, l *leaf, geoms intersect.Geometries) bool {
	hit := false
	if l.pairs.Count() > 0 && t.pairs.Intersect(ray, &l.pairs, geoms) {
		hit = true
	}
	if l.tris.Count() > 0 && t.tris.Intersect(ray, &l.tris, geoms) {
		hit = true
	}
	return hit
}

func (t *kernels[C]) occluded(ray *core.Ray, l *leaf, geoms intersect.Geometries) bool {
	if l.pairs.Count() > 0 && t.pairs.Occluded(ray, &l.pairs, geoms) {
		return true
	}
	return l.tris.Count() > 0 && t.tris.Occluded(ray, &l.tris, geoms)
}

// packetLeafTracer is leafTracer for packets of K rays.
type packetLeafTracer[K simd.Width] interface {
	closestHit(valid simd.Mask[K], rays *core.RayK[K], l *leaf, geoms intersect.Geometries) simd.Mask[K]
	occluded(valid simd.Mask[K], rays *core.RayK[K], l *leaf, geoms intersect.Geometries) simd.Mask[K]
}

type packetKernels[K simd.Width, C intersect.Culling] struct {
	tris  *intersect.TrianglesIntersectorK[simd.W4, K, C]
	pairs *intersect.PairsIntersectorK[simd.W4, simd.W8, K, C]
}

func newPacketLeafTracer[K simd.Width](cull bool) (packetLeafTracer[K], error) {
	if cull {
		return newPacketKernels[K, intersect.CullBackfaces]()
	}
	return newPacketKernels[K, intersect.NoCulling]()
}

func newPacketKernels[K simd.Width, C intersect.Culling]() (*packetKernels[K, C], error) {
	tris, err := intersect.NewTrianglesIntersectorK[simd.W4, K, C]()
	if err != nil {
		return nil, err
	}
	pairs, err := intersect.NewPairsIntersectorK[simd.W4, simd.W8, K, C]()
	if err != nil {
		return nil, err
	}
	return &packetKernels[K, C]{tris: tris, pairs: pairs}, nil
}

func (t *packetKernels[K, C]) closestHit(valid simd.Mask[K], rays *core.RayK[K], l *leaf,
	geoms intersect.Geometries) simd.Mask[K] {
	hit := simd.MaskFalse[K]()
	if l.pairs.Count() > 0 {
		hit = hit.Or(t.pairs.Intersect(valid, rays, &l.pairs, geoms))
	}
	if l.tris.Count() > 0 {
		hit = hit.Or(t.tris.Intersect(valid, rays, &l.tris, geoms))
	}
	return hit
}

func (t *packetKernels[K, C]) occluded(valid simd.Mask[K], rays *core.RayK[K], l *leaf,
	geoms intersect.Geometries) simd.Mask[K] {
	done := simd.MaskFalse[K]()
	if l.pairs.Count() > 0 {
		done = t.pairs.Occluded(valid, rays, &l.pairs, geoms)
	}
	if rest := valid.AndNot(done); rest.Any() && l.tris.Count() > 0 {
		done = done.Or(t.tris.Occluded(rest, rays, &l.tris, geoms))
	}
	return done
}
