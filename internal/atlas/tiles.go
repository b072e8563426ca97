package atlas

import (
	"github.com/karl-zylinski/atlas-builder/internal/aseprite"
)

// DefaultTileSize is the build-time tile grid constant; callers normally
// take this from configuration instead.
const DefaultTileSize = 10

// ExtractTiles divides a tileset document's first Compressed_Image cel into
// a fixed-size grid and discards tiles whose pixels are all fully
// transparent.
func ExtractTiles(doc *aseprite.Document, tilesetName string, tileSize int) []TileRecord {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	cel := firstCompressedImageCel(doc)
	if cel == nil {
		return nil
	}

	depth := doc.Header.ColorDepth
	var palette *aseprite.PaletteChunk
	if depth == aseprite.ColorDepthIndexed {
		palette = findPalette(doc)
	}

	w := int(cel.Size.W)
	h := int(cel.Size.H)
	materialized := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixel := materializePixel(cel.Pixels, x, y, w, depth, palette)
			i := (y*w + x) * 4
			copy(materialized[i:i+4], pixel[:])
		}
	}

	return gridSliceTiles(materialized, w, h, tileSize, tilesetName)
}

// gridSliceTiles divides an already-materialized RGBA buffer into a
// tileSize x tileSize grid, discarding tiles whose pixels are all fully
// transparent. Shared by the Aseprite tileset path and the PNG tileset
// passthrough path.
func gridSliceTiles(pixels []byte, w, h, tileSize int, tilesetName string) []TileRecord {
	cols := w / tileSize
	rows := h / tileSize

	var tiles []TileRecord
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			buf := make([]byte, tileSize*tileSize*4)
			opaque := false
			for py := 0; py < tileSize; py++ {
				for px := 0; px < tileSize; px++ {
					sx := tx*tileSize + px
					sy := ty*tileSize + py
					si := (sy*w + sx) * 4
					pixel := pixels[si : si+4]
					if pixel[3] != 0 {
						opaque = true
					}
					di := (py*tileSize + px) * 4
					copy(buf[di:di+4], pixel)
				}
			}
			if !opaque {
				continue
			}
			tiles = append(tiles, TileRecord{
				Tileset: tilesetName,
				X:       tx,
				Y:       ty,
				pixels:  buf,
				width:   tileSize,
				height:  tileSize,
			})
		}
	}

	return tiles
}

func firstCompressedImageCel(doc *aseprite.Document) *aseprite.CelChunk {
	for _, frame := range doc.Frames {
		for _, chunk := range frame.Chunks {
			cel, ok := chunk.(*aseprite.CelChunk)
			if ok && cel.Kind == aseprite.CelKindCompressedImage {
				return cel
			}
		}
	}
	return nil
}
