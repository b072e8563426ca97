package atlas

import (
	"bytes"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// decodePNGRGBA decodes an 8-bit RGBA PNG into the same tightly-packed
// row-major RGBA layout the rest of the package works with.
func decodePNGRGBA(data []byte) (pixels []byte, width, height int, err error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "decoding png")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			buf[i] = uint8(r >> 8)
			buf[i+1] = uint8(g >> 8)
			buf[i+2] = uint8(b >> 8)
			buf[i+3] = uint8(a >> 8)
		}
	}
	return buf, w, h, nil
}

// TextureFromPNG treats an entire PNG file as one already-flattened texture.
// Non-tileset PNGs in the input directory take this path instead of the
// decode+flatten path Aseprite documents take.
func TextureFromPNG(sourceName string, data []byte) (TextureRecord, error) {
	pixels, w, h, err := decodePNGRGBA(data)
	if err != nil {
		return TextureRecord{}, err
	}

	return TextureRecord{
		Name:         symbolicName(sourceName),
		SourceDoc:    sourceName,
		DocumentSize: image.Pt(w, h),
		pixels:       pixels,
		width:        w,
		height:       h,
	}, nil
}

// TilesFromPNG grid-slices a PNG tileset image the same way ExtractTiles
// slices a decoded Aseprite cel, discarding fully transparent tiles.
func TilesFromPNG(tilesetName string, data []byte, tileSize int) ([]TileRecord, error) {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	pixels, w, h, err := decodePNGRGBA(data)
	if err != nil {
		return nil, err
	}

	return gridSliceTiles(pixels, w, h, tileSize, tilesetName), nil
}
