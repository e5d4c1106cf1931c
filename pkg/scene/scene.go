package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/geometry"
	"github.com/df07/go-raykernel/pkg/intersect"
	"github.com/df07/go-raykernel/pkg/log"
	"github.com/df07/go-raykernel/pkg/simd"
)

// ErrNotCommitted is returned when a committed scene is required.
var ErrNotCommitted = errors.New("scene: not committed")

// boundsPadding widens primitive bounds so flat triangles survive the slab test.
const boundsPadding = 1e-4

// Scene holds triangle meshes and the acceleration structure built over them.
// Meshes may only be added before Commit; a committed scene is immutable and
// safe for concurrent queries.
type Scene struct {
	meshes    []*Mesh
	committed bool
	opts      options

	bvh    *core.BVH[primitive]
	leaves []leaf
	tracer leafTracer
	geoms  intersect.Geometries // nil when no mesh has a mask or filter
	stats  Stats
}

// Stats describes a committed scene.
type Stats struct {
	Meshes     int
	Triangles  int
	Pairs      int
	Singles    int
	BVH        core.BVHStats
	BuildTime  time.Duration
	Culling    bool
	LeafWidth  int
	PairsWidth int
}

// primitive is a BVH item: a lone triangle or a triangle pair.
type primitive struct {
	bounds core.AABB
	tri    geometry.Triangle
	pair   geometry.TrianglePair
	isPair bool
}

func (p primitive) BoundingBox() core.AABB { return p.bounds }

// leaf holds the primitives of one BVH leaf packed for the kernels.
type leaf struct {
	tris  geometry.TrianglesM[simd.W4]
	pairs geometry.TrianglePairsM[simd.W4]
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{opts: defaultOptions()}
}

// AddMesh adds m and returns its geometry ID.
func (s *Scene) AddMesh(m *Mesh) (int32, error) {
	if s.committed {
		return core.InvalidID, errors.New("scene: cannot add meshes after commit")
	}
	s.meshes = append(s.meshes, m)
	return int32(len(s.meshes) - 1), nil
}

// Mesh returns the mesh with the given geometry ID, or nil.
func (s *Scene) Mesh(geomID int32) *Mesh {
	if geomID < 0 || int(geomID) >= len(s.meshes) {
		return nil
	}
	return s.meshes[geomID]
}

// Meshes returns the number of meshes.
func (s *Scene) Meshes() int { return len(s.meshes) }

// Mask implements intersect.Geometries.
func (s *Scene) Mask(geomID int32) uint32 {
	if m := s.Mesh(geomID); m != nil {
		return m.Mask
	}
	return 0
}

// Filter implements intersect.Geometries.
func (s *Scene) Filter(geomID int32) intersect.FilterFunc {
	if m := s.Mesh(geomID); m != nil {
		return m.Filter
	}
	return nil
}

// Commit validates the meshes, pairs triangles and builds the BVH.
func (s *Scene) Commit(opts ...Option) error {
	s.opts = defaultOptions()
	for _, opt := range opts {
		opt(&s.opts)
	}
	start := time.Now()

	tracer, err := newLeafTracer(s.opts.cull)
	if err != nil {
		return fmt.Errorf("scene commit: %w", err)
	}

	var prims []primitive
	stats := Stats{Meshes: len(s.meshes), Culling: s.opts.cull, LeafWidth: 4, PairsWidth: 8}
	needGeoms := false
	for id, m := range s.meshes {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("scene commit: %w", err)
		}
		if m.Mask != math.MaxUint32 || m.Filter != nil {
			needGeoms = true
		}
		geomID := int32(id)
		stats.Triangles += len(m.Triangles)
		prims = append(prims, meshPrimitives(m, geomID, s.opts.pairs, &stats)...)
	}

	s.bvh = core.NewBVH(prims, s.opts.leafSize)
	s.leaves = make([]leaf, s.bvh.Leaves)
	packLeaves(s.bvh.Root, s.leaves)
	s.tracer = tracer
	s.geoms = nil
	if needGeoms {
		s.geoms = s
	}

	stats.BVH = s.bvh.Stats()
	stats.BuildTime = time.Since(start)
	s.stats = stats
	s.committed = true

	s.opts.logger.Infof("committed %d meshes: %d triangles as %d pairs + %d singles, %d BVH nodes (depth %d) in %v",
		stats.Meshes, stats.Triangles, stats.Pairs, stats.Singles, stats.BVH.TotalNodes, stats.BVH.MaxDepth, stats.BuildTime)
	if target := simd.Host(); target.Emulated(stats.PairsWidth) {
		s.opts.logger.Debugf("%d-wide pair batches run emulated on %v", stats.PairsWidth, target)
	}
	return nil
}

func meshPrimitives(m *Mesh, geomID int32, pairs bool, stats *Stats) []primitive {
	var prims []primitive
	addSingle := func(i int) {
		tri := m.Triangle(i, geomID)
		prims = append(prims, primitive{bounds: tri.BoundingBox().Expand(boundsPadding), tri: tri})
		stats.Singles++
	}

	if !pairs {
		for i := range m.Triangles {
			addSingle(i)
		}
		return prims
	}

	indexed, singles := geometry.PairTriangles(m.Triangles)
	for _, ip := range indexed {
		q := ip.Quad
		p := geometry.TrianglePair{
			V0: m.Vertices[q[0]], V1: m.Vertices[q[1]], V2: m.Vertices[q[2]], V3: m.Vertices[q[3]],
			GeomIDs: [2]int32{geomID, geomID},
			PrimIDs: [2]int32{int32(ip.A), int32(ip.B)},
			Flags:   ip.Flags,
		}
		prims = append(prims, primitive{bounds: p.BoundingBox().Expand(boundsPadding), pair: p, isPair: true})
		stats.Pairs++
	}
	for _, i := range singles {
		addSingle(i)
	}
	return prims
}

func packLeaves(node *core.BVHNode[primitive], leaves []leaf) {
	if node == nil {
		return
	}
	if node.Items == nil {
		packLeaves(node.Left, leaves)
		packLeaves(node.Right, leaves)
		return
	}
	var tris []geometry.Triangle
	var pairs []geometry.TrianglePair
	for _, p := range node.Items {
		if p.isPair {
			pairs = append(pairs, p.pair)
		} else {
			tris = append(tris, p.tri)
		}
	}
	leaves[node.Leaf] = leaf{
		tris:  geometry.PackTriangles[simd.W4](tris),
		pairs: geometry.PackPairs[simd.W4](pairs),
	}
}

// Committed reports whether Commit has succeeded.
func (s *Scene) Committed() bool { return s.committed }

// Stats returns build statistics, or ErrNotCommitted.
func (s *Scene) Stats() (Stats, error) {
	if !s.committed {
		return Stats{}, ErrNotCommitted
	}
	return s.stats, nil
}

// BoundingBox returns the bounds of every mesh.
func (s *Scene) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for i, m := range s.meshes {
		if i == 0 {
			box = m.BoundingBox()
			continue
		}
		box = box.Union(m.BoundingBox())
	}
	return box
}

// Intersect finds the closest hit along ray and writes it into ray. An
// uncommitted scene reports no hit.
func (s *Scene) Intersect(ray *core.Ray) bool {
	if !s.committed {
		return false
	}
	hit := false
	s.bvh.Visit(ray, func(i int, _ []primitive) bool {
		if s.tracer.closestHit(ray, &s.leaves[i], s.geoms) {
			hit = true
		}
		return false
	})
	return hit
}

// Occluded reports whether anything blocks ray. The ray is not modified.
func (s *Scene) Occluded(ray *core.Ray) bool {
	if !s.committed {
		return false
	}
	return s.bvh.Visit(ray, func(i int, _ []primitive) bool {
		return s.tracer.occluded(ray, &s.leaves[i], s.geoms)
	})
}

// Logger returns the logger configured at commit.
func (s *Scene) Logger() log.Logger { return s.opts.logger }
