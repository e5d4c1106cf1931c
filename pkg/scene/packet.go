package scene

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/simd"
)

// PacketTracer traces packets of K rays through a committed scene.
type PacketTracer[K simd.Width] struct {
	scene   *Scene
	kernels packetLeafTracer[K]
}

// NewPacketTracer binds a packet tracer to a committed scene, using the
// scene's culling policy.
func NewPacketTracer[K simd.Width](s *Scene) (*PacketTracer[K], error) {
	if !s.committed {
		return nil, ErrNotCommitted
	}
	kernels, err := newPacketLeafTracer[K](s.opts.cull)
	if err != nil {
		return nil, fmt.Errorf("packet tracer: %w", err)
	}
	if target := simd.Host(); target.Emulated(simd.LanesOf[K]()) {
		s.opts.logger.Debugf("%d-wide packets run emulated on %v", simd.LanesOf[K](), target)
	}
	return &PacketTracer[K]{scene: s, kernels: kernels}, nil
}

// Intersect finds the closest hit of every valid lane and returns the lanes
// that hit something. Invalid lanes are never read or written.
func (p *PacketTracer[K]) Intersect(valid simd.Mask[K], rays *core.RayK[K]) simd.Mask[K] {
	s := p.scene
	hit := simd.MaskFalse[K]()
	core.VisitK(s.bvh, rays, valid, func(active simd.Mask[K], i int, _ []primitive) simd.Mask[K] {
		hit = hit.Or(p.kernels.closestHit(active, rays, &s.leaves[i], s.geoms))
		return simd.MaskFalse[K]()
	})
	return hit
}

// Occluded returns the valid lanes blocked by any geometry. Rays are not
// modified.
func (p *PacketTracer[K]) Occluded(valid simd.Mask[K], rays *core.RayK[K]) simd.Mask[K] {
	s := p.scene
	return core.VisitK(s.bvh, rays, valid, func(active simd.Mask[K], i int, _ []primitive) simd.Mask[K] {
		return p.kernels.occluded(active, rays, &s.leaves[i], s.geoms)
	})
}
