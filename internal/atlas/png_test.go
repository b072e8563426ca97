package atlas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTextureFromPNGDecodesWholeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	tex, err := TextureFromPNG("background.png", encodeTestPNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, "Background", tex.Name)
	assert.Equal(t, 2, tex.width)
	assert.Equal(t, 1, tex.height)
	assert.Equal(t, []byte{10, 20, 30, 255, 40, 50, 60, 255}, tex.pixels)
}

func TestTilesFromPNGDiscardsFullyTransparentTile(t *testing.T) {
	const tileSize = 2
	img := image.NewRGBA(image.Rect(0, 0, tileSize*2, tileSize))
	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	// Tile (1,0) is left fully transparent (zero value).

	tiles, err := TilesFromPNG("TilesetGround", encodeTestPNG(t, img), tileSize)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, 0, tiles[0].X)
	assert.Equal(t, 0, tiles[0].Y)
}
