package atlas

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// symbolicName derives the catalogue's stable name for a source path:
// strip directory and extension, split on underscore/hyphen/space, and
// PascalCase each component.
func symbolicName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var b strings.Builder
	for _, part := range parts {
		b.WriteString(pascalCase(part))
	}
	if b.Len() == 0 {
		return "Unnamed"
	}
	return b.String()
}

func pascalCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func frameTextureName(baseName string, frameIndex int) string {
	return fmt.Sprintf("%s%d", baseName, frameIndex)
}

// BuildCatalogue assembles a complete Catalogue from everything gathered
// across all input documents, in a stable order: textures
// in name order, animations in name order, tiles in row-major (x-major)
// order per tileset, then glyphs by codepoint.
func BuildCatalogue(textures []TextureRecord, animations []AnimationRecord, tiles []TileRecord, glyphs []GlyphRecord, swatch Swatch, atlasW, atlasH int) Catalogue {
	sort.Slice(textures, func(i, j int) bool { return textures[i].Name < textures[j].Name })
	sort.Slice(animations, func(i, j int) bool { return animations[i].Name < animations[j].Name })
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Tileset != tiles[j].Tileset {
			return tiles[i].Tileset < tiles[j].Tileset
		}
		if tiles[i].X != tiles[j].X {
			return tiles[i].X < tiles[j].X
		}
		return tiles[i].Y < tiles[j].Y
	})
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].Codepoint < glyphs[j].Codepoint })

	return Catalogue{
		Textures:   textures,
		Animations: animations,
		Tiles:      tiles,
		Glyphs:     glyphs,
		Swatch:     swatch,
		AtlasSize:  image.Pt(atlasW, atlasH),
	}
}
