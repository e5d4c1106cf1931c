package renderer

import (
	"fmt"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/df07/go-raykernel/pkg/simd"
)

// rayTracer traces batches of independent rays. Implementations may keep
// scratch state, so each worker owns one.
type rayTracer interface {
	intersect(rays []core.Ray)
	occluded(rays []core.Ray, blocked []bool)
}

type scalarTracer struct {
	scene *scene.Scene
}

func (t scalarTracer) intersect(rays []core.Ray) {
	for i := range rays {
		t.scene.Intersect(&rays[i])
	}
}

func (t scalarTracer) occluded(rays []core.Ray, blocked []bool) {
	for i := range rays {
		blocked[i] = t.scene.Occluded(&rays[i])
	}
}

// packetTracer gathers rays into packets of K lanes.
type packetTracer[K simd.Width] struct {
	tracer *scene.PacketTracer[K]
	packet core.RayK[K]
}

func newPacketTracer[K simd.Width](s *scene.Scene) (*packetTracer[K], error) {
	pt, err := scene.NewPacketTracer[K](s)
	if err != nil {
		return nil, err
	}
	return &packetTracer[K]{tracer: pt}, nil
}

// load fills the packet with rays and returns the mask of filled lanes.
func (t *packetTracer[K]) load(rays []core.Ray) simd.Mask[K] {
	t.packet = core.NewRayK[K]()
	for k := range rays {
		t.packet.SetRay(k, rays[k])
	}
	return simd.FirstLanes[K](len(rays))
}

func (t *packetTracer[K]) intersect(rays []core.Ray) {
	lanes := simd.LanesOf[K]()
	for start := 0; start < len(rays); start += lanes {
		chunk := rays[start:min(start+lanes, len(rays))]
		valid := t.load(chunk)
		t.tracer.Intersect(valid, &t.packet)
		for k := range chunk {
			chunk[k] = t.packet.Ray(k)
		}
	}
}

func (t *packetTracer[K]) occluded(rays []core.Ray, blocked []bool) {
	lanes := simd.LanesOf[K]()
	for start := 0; start < len(rays); start += lanes {
		chunk := rays[start:min(start+lanes, len(rays))]
		valid := t.load(chunk)
		hit := t.tracer.Occluded(valid, &t.packet)
		for k := range chunk {
			blocked[start+k] = hit.Get(k)
		}
	}
}

// newRayTracer returns a scalar tracer for packetWidth <= 1, otherwise a
// packet tracer of that width.
func newRayTracer(s *scene.Scene, packetWidth int) (rayTracer, error) {
	switch packetWidth {
	case 0, 1:
		if !s.Committed() {
			return nil, scene.ErrNotCommitted
		}
		return scalarTracer{scene: s}, nil
	case 4:
		return newPacketTracer[simd.W4](s)
	case 8:
		return newPacketTracer[simd.W8](s)
	case 16:
		return newPacketTracer[simd.W16](s)
	}
	return nil, fmt.Errorf("packet width %d: %w", packetWidth, simd.ErrUnsupportedWidth)
}
