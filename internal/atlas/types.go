// Package atlas composites decoded sprite documents, a tile source, and a
// font into a single packed texture atlas plus the structured metadata that
// locates every frame, tile and glyph within it.
package atlas

import "image"

// LoopDirection mirrors aseprite.LoopDirection so callers of this package
// never need to import the decoder package just to read an animation's
// playback direction.
type LoopDirection uint8

const (
	LoopForward LoopDirection = iota
	LoopReverse
	LoopPingPong
	LoopPingPongReverse
)

// TextureRecord is one packed frame: its place in the atlas, its original
// document size, and the whitespace trimmed from each side so a renderer
// can reposition it relative to the original document origin.
type TextureRecord struct {
	Name          string
	SourceDoc     string
	FrameIndex    int
	Rect          image.Rectangle // final atlas placement
	DocumentSize  image.Point
	OffsetTop     int
	OffsetRight   int
	OffsetBottom  int
	OffsetLeft    int
	DurationSecs  float64

	pixels []byte // RGBA, width*height*4 (Rect-sized; the seam lies outside Rect), row-major; consumed by the packer
	width  int
	height int
}

// AnimationRecord names a contiguous run of frame textures.
type AnimationRecord struct {
	Name        string
	FirstFrame  string
	LastFrame   string
	Direction   LoopDirection
	Repeat      int
	DocumentSize image.Point
}

// TileRecord is one surviving tile from a tileset document.
type TileRecord struct {
	Tileset string
	X, Y    int
	Rect    image.Rectangle

	pixels []byte
	width  int
	height int
}

// GlyphRecord is one rasterized codepoint.
type GlyphRecord struct {
	Codepoint rune
	Rect      image.Rectangle
	OffsetX   int
	OffsetY   int
	AdvanceX  int

	pixels []byte // 8-bit alpha promoted to white RGBA, width*height*4
	width  int
	height int
}

// Swatch is the single solid-white rectangle reserved in the atlas.
type Swatch struct {
	Rect image.Rectangle
}

// Catalogue is the full structured metadata describing everything placed in
// one atlas.
type Catalogue struct {
	Textures   []TextureRecord
	Animations []AnimationRecord
	Tiles      []TileRecord
	Glyphs     []GlyphRecord
	Swatch     Swatch
	AtlasSize  image.Point
}
