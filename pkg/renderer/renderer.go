// Package renderer draws debug images of a scene with the ray kernels: tiles
// of primary rays are traced by a pool of workers and shaded by one of the
// modes in Mode.
package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/df07/go-raykernel/pkg/log"
	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Config describes the frame to render.
type Config struct {
	Width    int
	Height   int
	Mode     Mode
	TileSize int
	// Camera overrides the default view framing the scene bounds.
	Camera *CameraConfig
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:    512,
		Height:   512,
		Mode:     ModeEyeLight,
		TileSize: DefaultTileSize,
	}
}

// Option configures how a Renderer executes.
type Option func(*options)

type options struct {
	workers     int
	packetWidth int
	logger      log.Logger
}

// WithWorkers sets the number of worker goroutines; n <= 0 uses one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPacketWidth traces primary and shadow rays in packets of k lanes
// (4, 8 or 16). 0 or 1 traces single rays.
func WithPacketWidth(k int) Option {
	return func(o *options) { o.packetWidth = k }
}

// WithLogger sets the logger for frame timing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Renderer renders frames of one committed scene.
type Renderer struct {
	scene  *scene.Scene
	config Config
	opts   options
	camera *Camera
	picker rayTracer
}

// NewRenderer validates config and binds it to a committed scene.
func NewRenderer(s *scene.Scene, config Config, opts ...Option) (*Renderer, error) {
	o := options{logger: log.New("renderer")}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("renderer: invalid image size %dx%d", config.Width, config.Height)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.Mode < 0 || int(config.Mode) >= len(modeNames) {
		return nil, fmt.Errorf("renderer: unknown mode %v", config.Mode)
	}

	picker, err := newRayTracer(s, 1)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if _, err := newRayTracer(s, o.packetWidth); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	camConfig := FrameBox(s.BoundingBox(), config.Width, config.Height)
	if config.Camera != nil {
		camConfig = *config.Camera
		camConfig.Width, camConfig.Height = config.Width, config.Height
	}

	return &Renderer{
		scene:  s,
		config: config,
		opts:   o,
		camera: NewCamera(camConfig),
		picker: picker,
	}, nil
}

// Camera returns the camera used for primary rays.
func (r *Renderer) Camera() *Camera { return r.camera }

// Render traces one frame. Cancelling ctx abandons the remaining tiles and
// returns the context error.
func (r *Renderer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	start := time.Now()
	cfg := r.config

	renderers := make([]*TileRenderer, r.opts.workers)
	for i := range renderers {
		tracer, err := newRayTracer(r.scene, r.opts.packetWidth)
		if err != nil {
			return nil, RenderStats{}, err
		}
		renderers[i] = newTileRenderer(tracer, r.camera, cfg.Mode)
	}

	tiles := NewTileGrid(cfg.Width, cfg.Height, cfg.TileSize)
	frame := NewFramebuffer(cfg.Width, cfg.Height)
	pool := NewWorkerPool(renderers, len(tiles))
	pool.Start()

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: i, Frame: frame})
	}

	stats := RenderStats{
		Mode:        cfg.Mode,
		PacketWidth: r.opts.packetWidth,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Tiles:       len(tiles),
		Workers:     make([]WorkerStats, len(renderers)),
	}
	for i := range stats.Workers {
		stats.Workers[i].ID = i
	}

	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		w := &stats.Workers[result.WorkerID]
		w.Tiles++
		w.add(result.Stats)
		w.Busy += result.Elapsed
		stats.add(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	stats.Elapsed = time.Since(start)
	r.opts.logger.Noticef("rendered %dx%d %s in %v (%d workers, %.2f Mrays/s)",
		cfg.Width, cfg.Height, cfg.Mode, stats.Elapsed, len(renderers), stats.RaysPerSecond()/1e6)
	return frame, stats, nil
}

// Inspect traces the primary ray through image position (x, y) and returns
// its closest hit.
func (r *Renderer) Inspect(x, y float32) (core.HitRecord, bool) {
	rays := []core.Ray{r.camera.GetRay(x, y)}
	r.picker.intersect(rays)
	return rays[0].Record()
}

// Pick returns the point seen through image position (x, y), or false when
// the ray escapes.
func (r *Renderer) Pick(x, y float32) (mgl32.Vec3, bool) {
	hit, ok := r.Inspect(x, y)
	return hit.Point, ok
}
