package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolicNameSplitsOnSeparatorsAndPascalCases(t *testing.T) {
	cases := map[string]string{
		"hero_walk.aseprite": "HeroWalk",
		"tileset-ground.ase": "TilesetGround",
		"UI icons.aseprite":  "UIIcons",
		"plain":              "Plain",
	}

	for input, want := range cases {
		assert.Equal(t, want, symbolicName(input), "input %q", input)
	}
}

func TestSymbolicNameEmptyFallsBackToUnnamed(t *testing.T) {
	assert.Equal(t, "Unnamed", symbolicName(""))
	assert.Equal(t, "Unnamed", symbolicName("___"))
}

func TestPascalCaseLowercasesTailAndUppercasesHead(t *testing.T) {
	assert.Equal(t, "Walk", pascalCase("WALK"))
	assert.Equal(t, "Walk", pascalCase("walk"))
	assert.Equal(t, "", pascalCase(""))
}

func TestFrameTextureNameAppendsIndex(t *testing.T) {
	assert.Equal(t, "Hero3", frameTextureName("Hero", 3))
}

func TestBuildCatalogueOrdersEverythingStably(t *testing.T) {
	textures := []TextureRecord{{Name: "Zebra"}, {Name: "Apple"}}
	animations := []AnimationRecord{{Name: "Zrun"}, {Name: "Arun"}}
	tiles := []TileRecord{
		{Tileset: "Ground", X: 1, Y: 0},
		{Tileset: "Ground", X: 0, Y: 0},
		{Tileset: "Air", X: 5, Y: 5},
	}
	glyphs := []GlyphRecord{{Codepoint: 'b'}, {Codepoint: 'a'}}

	cat := BuildCatalogue(textures, animations, tiles, glyphs, Swatch{}, 128, 256)

	assert.Equal(t, "Apple", cat.Textures[0].Name)
	assert.Equal(t, "Zebra", cat.Textures[1].Name)

	assert.Equal(t, "Arun", cat.Animations[0].Name)
	assert.Equal(t, "Zrun", cat.Animations[1].Name)

	assert.Equal(t, "Air", cat.Tiles[0].Tileset)
	assert.Equal(t, "Ground", cat.Tiles[1].Tileset)
	assert.Equal(t, 0, cat.Tiles[1].X)
	assert.Equal(t, 1, cat.Tiles[2].X)

	assert.Equal(t, rune('a'), glyphs[0].Codepoint)
	assert.Equal(t, rune('b'), glyphs[1].Codepoint)

	assert.Equal(t, 128, cat.AtlasSize.X)
	assert.Equal(t, 256, cat.AtlasSize.Y)
}
