package renderer

import "image"

// DefaultTileSize is the edge length of a square tile in pixels.
const DefaultTileSize = 8

// Tile is a rectangular region of the image rendered by one worker.
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// TileCount returns the number of tiles along each axis.
func TileCount(width, height, tileSize int) (tilesX, tilesY int) {
	return (width + tileSize - 1) / tileSize, (height + tileSize - 1) / tileSize
}

// TileBounds returns the pixel bounds of tile index, counting tiles row by
// row. Edge tiles are clipped to the image.
func TileBounds(index, width, height, tileSize int) image.Rectangle {
	tilesX, _ := TileCount(width, height, tileSize)
	tileY := index / tilesX
	tileX := index - tileY*tilesX
	x0 := tileX * tileSize
	y0 := tileY * tileSize
	return image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height))
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	tilesX, tilesY := TileCount(width, height, tileSize)
	tiles := make([]*Tile, 0, tilesX*tilesY)
	for id := 0; id < tilesX*tilesY; id++ {
		tiles = append(tiles, &Tile{ID: id, Bounds: TileBounds(id, width, height, tileSize)})
	}
	return tiles
}
