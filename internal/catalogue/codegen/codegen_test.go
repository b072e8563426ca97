package codegen

import (
	"image"
	"testing"

	"github.com/karl-zylinski/atlas-builder/internal/atlas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesValidGoSource(t *testing.T) {
	cat := atlas.Catalogue{
		AtlasSize: image.Pt(256, 256),
		Swatch:    atlas.Swatch{Rect: image.Rect(0, 0, 10, 10)},
	}

	out, err := Render("atlas", cat)
	require.NoError(t, err)
	assert.Contains(t, string(out), "package atlas")
	assert.Contains(t, string(out), "AtlasWidth  = 256")
	assert.Contains(t, string(out), "var SwatchRect")
}

func TestRenderGroupsTilesByTileset(t *testing.T) {
	cat := atlas.Catalogue{
		AtlasSize: image.Pt(64, 64),
		Tiles: []atlas.TileRecord{
			{Tileset: "TilesetGround", X: 0, Y: 0, Rect: image.Rect(0, 0, 10, 10)},
			{Tileset: "TilesetGround", X: 1, Y: 0, Rect: image.Rect(10, 0, 20, 10)},
		},
	}

	out, err := Render("atlas", cat)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"TilesetGround"`)
}

func TestRenderEmptyCatalogue(t *testing.T) {
	out, err := Render("atlas", atlas.Catalogue{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "var Textures = map[string]TextureFrame{")
}
