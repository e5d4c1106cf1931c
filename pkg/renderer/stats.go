package renderer

import (
	"image"
	"time"
)

// TileStats counts the work done for one tile.
type TileStats struct {
	Pixels     int
	Rays       int // primary rays, including uv16 repeats
	ShadowRays int
	Hits       int
}

func (s *TileStats) add(o TileStats) {
	s.Pixels += o.Pixels
	s.Rays += o.Rays
	s.ShadowRays += o.ShadowRays
	s.Hits += o.Hits
}

// WorkerStats accumulates the tiles rendered by one worker.
type WorkerStats struct {
	ID    int
	Tiles int
	TileStats
	Busy time.Duration
}

// RenderStats contains statistics about one frame
type RenderStats struct {
	Mode        Mode
	PacketWidth int
	Width       int
	Height      int
	Tiles       int
	TileStats
	Elapsed time.Duration
	Workers []WorkerStats
}

// TotalRays counts primary and shadow rays.
func (s RenderStats) TotalRays() int {
	return s.Rays + s.ShadowRays
}

// RaysPerSecond returns the ray throughput over the whole frame.
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalRays()) / s.Elapsed.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img.
func CalculateAverageLuminance(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sum += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)) / 65535
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}
