package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// benchResult is one row of the benchmark table.
type benchResult struct {
	Path    string
	Width   int
	Rays    int
	Hits    int
	Elapsed time.Duration
}

func (r benchResult) mraysPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Rays) / r.Elapsed.Seconds() / 1e6
}

// Bench traces a fixed set of random rays through a scene with single rays
// and every packet width, then reports hit counts and throughput.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := loadScene(ctx, "shapes")
	if err != nil {
		return err
	}
	stats, err := s.Stats()
	if err != nil {
		return err
	}
	displaySceneStats(stats)

	rays := randomRays(s.BoundingBox(), ctx.Int("rays"), ctx.Int64("seed"))
	results, err := runBench(s, rays, ctx.Int("width"))
	if err != nil {
		return err
	}
	displayBenchResults(results)
	return nil
}

// randomRays returns n rays starting around box and aimed at random points
// inside it, so most of them reach the geometry.
func randomRays(box core.AABB, n int, seed int64) []core.Ray {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	outer := box.Expand(box.Size().Len())
	rays := make([]core.Ray, n)
	for i := range rays {
		origin := core.SamplePointInBox(outer, mgl32.Vec3{sampler.Get1D(), sampler.Get1D(), sampler.Get1D()})
		target := core.SamplePointInBox(box, mgl32.Vec3{sampler.Get1D(), sampler.Get1D(), sampler.Get1D()})
		dir := target.Sub(origin)
		if dir.Len() < 1e-6 {
			dir = core.SampleOnUnitSphere(sampler.Get2D())
		}
		rays[i] = core.NewRay(origin, dir.Normalize())
	}
	return rays
}

// runBench traces rays with single rays and with packets. A width of zero runs
// every packet width; otherwise only that width runs next to single rays.
func runBench(s *scene.Scene, rays []core.Ray, width int) ([]benchResult, error) {
	results := []benchResult{
		benchSingle(s, rays, false),
		benchSingle(s, rays, true),
	}

	type packetBench func(*scene.Scene, []core.Ray, bool) (benchResult, error)
	widths := []struct {
		lanes int
		run   packetBench
	}{
		{4, benchPacket[simd.W4]},
		{8, benchPacket[simd.W8]},
		{16, benchPacket[simd.W16]},
	}

	matched := width <= 1
	for _, w := range widths {
		if width > 1 && w.lanes != width {
			continue
		}
		matched = true
		for _, occluded := range []bool{false, true} {
			r, err := w.run(s, rays, occluded)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
	}
	if !matched {
		return nil, fmt.Errorf("packet width %d: %w", width, simd.ErrUnsupportedWidth)
	}
	return results, nil
}

func benchPath(occluded bool) string {
	if occluded {
		return "occluded"
	}
	return "intersect"
}

func benchSingle(s *scene.Scene, rays []core.Ray, occluded bool) benchResult {
	work := make([]core.Ray, len(rays))
	copy(work, rays)

	r := benchResult{Path: benchPath(occluded), Width: 1, Rays: len(rays)}
	start := time.Now()
	for i := range work {
		var hit bool
		if occluded {
			hit = s.Occluded(&work[i])
		} else {
			hit = s.Intersect(&work[i])
		}
		if hit {
			r.Hits++
		}
	}
	r.Elapsed = time.Since(start)
	return r
}

func benchPacket[K simd.Width](s *scene.Scene, rays []core.Ray, occluded bool) (benchResult, error) {
	tracer, err := scene.NewPacketTracer[K](s)
	if err != nil {
		return benchResult{}, err
	}
	lanes := simd.LanesOf[K]()

	// Packets are loaded up front so the timing covers traversal only.
	packets := make([]core.RayK[K], 0, (len(rays)+lanes-1)/lanes)
	valid := make([]simd.Mask[K], 0, cap(packets))
	for base := 0; base < len(rays); base += lanes {
		n := min(lanes, len(rays)-base)
		p := core.NewRayK[K]()
		for k := 0; k < n; k++ {
			p.SetRay(k, rays[base+k])
		}
		packets = append(packets, p)
		valid = append(valid, simd.FirstLanes[K](n))
	}

	r := benchResult{Path: benchPath(occluded), Width: lanes, Rays: len(rays)}
	start := time.Now()
	for i := range packets {
		var hit simd.Mask[K]
		if occluded {
			hit = tracer.Occluded(valid[i], &packets[i])
		} else {
			hit = tracer.Intersect(valid[i], &packets[i])
		}
		r.Hits += hit.PopCount()
	}
	r.Elapsed = time.Since(start)
	return r, nil
}

func displayBenchResults(results []benchResult) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Query", "Width", "Rays", "Hits", "Time", "Mrays/s", "Emulated"})
	host := simd.Host()
	for _, r := range results {
		table.Append([]string{
			r.Path,
			fmt.Sprintf("%d", r.Width),
			fmt.Sprintf("%d", r.Rays),
			fmt.Sprintf("%d", r.Hits),
			r.Elapsed.String(),
			fmt.Sprintf("%.2f", r.mraysPerSecond()),
			fmt.Sprintf("%t", host.Emulated(r.Width)),
		})
	}
	table.Render()
	logger.Noticef("benchmark on %v\n%s", host, buf.String())
}
