package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-raykernel/pkg/texture"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
)

// LoadImage decodes a PNG, JPEG, BMP or TIFF file.
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// LoadTexture loads an image as an RGBA8 texture, scaled down so neither side
// exceeds maxSize (0 keeps the original size).
func LoadTexture(filename string, maxSize int) (*texture.Texture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	tex := texture.FromImage(img, maxSize)
	logger.Debugf("loaded texture %s: %dx%d", filename, tex.Width, tex.Height)
	return tex, nil
}
