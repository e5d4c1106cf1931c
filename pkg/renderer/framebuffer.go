package renderer

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Framebuffer holds packed 0x00BBGGRR pixels in row-major order.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer allocates a black framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]uint32, width*height)}
}

// PackColor converts a colour with channels in [0,1] to (b<<16)+(g<<8)+r.
// Channels are clamped, then truncated to 8 bits.
func PackColor(c mgl32.Vec3) uint32 {
	r := uint32(255 * mgl32.Clamp(c[0], 0, 1))
	g := uint32(255 * mgl32.Clamp(c[1], 0, 1))
	b := uint32(255 * mgl32.Clamp(c[2], 0, 1))
	return (b << 16) + (g << 8) + r
}

// Set stores colour c at (x, y).
func (f *Framebuffer) Set(x, y int, c mgl32.Vec3) {
	f.Pixels[y*f.Width+x] = PackColor(c)
}

// RGBA returns the pixel at (x, y) as an opaque colour.
func (f *Framebuffer) RGBA(x, y int) color.RGBA {
	p := f.Pixels[y*f.Width+x]
	return color.RGBA{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: 255}
}

// Image converts the framebuffer to an image.
func (f *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.RGBA(x, y))
		}
	}
	return img
}
