// Package texture stores textures and looks up texels for shading and alpha
// testing.
package texture

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Format is the storage layout of a texture.
type Format int

const (
	// RGBA8 stores four bytes per texel.
	RGBA8 Format = iota
	// Float32 stores one float per texel.
	Float32
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	case Float32:
		return "FLOAT32"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Texture is a row-major 2D texture. Texel (0,0) is the first stored row.
type Texture struct {
	Width  int
	Height int
	Format Format
	Bytes  []uint8   // RGBA8 data, 4 bytes per texel
	Floats []float32 // Float32 data, 1 float per texel
}

// NewRGBA8 wraps RGBA8 texel data.
func NewRGBA8(width, height int, data []uint8) (*Texture, error) {
	if width <= 0 || height <= 0 || len(data) != width*height*4 {
		return nil, fmt.Errorf("texture: %d bytes for %dx%d RGBA8", len(data), width, height)
	}
	return &Texture{Width: width, Height: height, Format: RGBA8, Bytes: data}, nil
}

// NewFloat32 wraps single-channel float texel data.
func NewFloat32(width, height int, data []float32) (*Texture, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, fmt.Errorf("texture: %d floats for %dx%d FLOAT32", len(data), width, height)
	}
	return &Texture{Width: width, Height: height, Format: Float32, Floats: data}, nil
}

// FromImage converts img to an RGBA8 texture. Images with a side longer than
// maxSize are scaled down to fit; maxSize <= 0 keeps the original size.
func FromImage(img image.Image, maxSize int) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return &Texture{Width: w, Height: h, Format: RGBA8, Bytes: dst.Pix}
}

// wrap maps a texture coordinate to a texel index, repeating in both
// directions.
func wrap(s float32, n int) int {
	i := int(math.Floor(float64(s * float32(n))))
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (t *Texture) index(s, tc float32) int {
	return wrap(tc, t.Height)*t.Width + wrap(s, t.Width)
}

// Texel1f returns the first channel at (s, t) in [0,1]. A nil texture reads 0.
func (t *Texture) Texel1f(s, tc float32) float32 {
	if t == nil {
		return 0
	}
	i := t.index(s, tc)
	switch t.Format {
	case Float32:
		return t.Floats[i]
	case RGBA8:
		return float32(t.Bytes[4*i]) / 255
	}
	return 0
}

// Texel3f returns the RGB channels at (s, t). Only RGBA8 textures have
// colour; everything else reads black.
func (t *Texture) Texel3f(s, tc float32) mgl32.Vec3 {
	if t == nil || t.Format != RGBA8 {
		return mgl32.Vec3{}
	}
	p := t.Bytes[4*t.index(s, tc):]
	return mgl32.Vec3{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255}
}

// Alpha returns the alpha channel at (s, t). Float32 textures are opaque.
func (t *Texture) Alpha(s, tc float32) float32 {
	if t == nil || t.Format != RGBA8 {
		return 1
	}
	return float32(t.Bytes[4*t.index(s, tc)+3]) / 255
}
