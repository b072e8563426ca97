package aseprite

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CelKind is the cel's storage variant.
type CelKind uint16

const (
	CelKindRaw CelKind = iota
	CelKindLinked
	CelKindCompressedImage
	CelKindCompressedTilemap
)

// TileFlip records the flip/rotation bits packed into a tilemap tile word
// alongside its tileset index.
type TileFlip uint8

const (
	TileFlipX TileFlip = 1 << iota
	TileFlipY
	TileFlipDiagonal
)

// Tile is one decoded cell of a tilemap cel: a tileset index plus its
// flip/rotation flags.
type Tile struct {
	Index uint32
	Flip  TileFlip
}

// CelChunk places one layer's image (or tilemap) data at a position on the
// canvas for the frame it belongs to.
type CelChunk struct {
	LayerIndex int
	Position   Point
	Opacity    uint8
	Kind       CelKind

	// Raw and CompressedImage only.
	Size   Size
	Pixels []byte // BytesPerPixel(doc.Header.ColorDepth)-wide pixels, row-major

	// Linked only: the frame this cel's data is shared with.
	LinkedFrame int

	// CompressedTilemap only.
	TileSize  Size // in tiles
	BitsPerTile int
	Tiles     []Tile
}

func (c *CelChunk) Type() ChunkType { return ChunkCel }

func decodeCelChunk(doc *Document, r *reader) (*CelChunk, error) {
	layerIndex, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	x, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}

	y, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}

	opacity, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	kind, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(2); err != nil { // z-index, unused by the flattener
		return nil, err
	}

	if err := r.Skip(5); err != nil { // reserved
		return nil, err
	}

	cel := &CelChunk{
		LayerIndex: int(layerIndex),
		Position:   Point{X: int32(x), Y: int32(y)},
		Opacity:    opacity,
		Kind:       CelKind(kind),
	}

	switch cel.Kind {
	case CelKindRaw:
		size, err := r.ReadSize()
		if err != nil {
			return nil, err
		}
		cel.Size = size
		pixelBytes := int(size.W) * int(size.H) * doc.Header.ColorDepth.BytesPerPixel()
		raw, err := r.readN(pixelBytes)
		if err != nil {
			return nil, err
		}
		cel.Pixels = doc.arena.alloc(raw)

	case CelKindLinked:
		linked, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		cel.LinkedFrame = int(linked)

	case CelKindCompressedImage:
		size, err := r.ReadSize()
		if err != nil {
			return nil, err
		}
		cel.Size = size
		pixelBytes := int(size.W) * int(size.H) * doc.Header.ColorDepth.BytesPerPixel()
		raw, err := inflateRemaining(r, pixelBytes)
		if err != nil {
			return nil, err
		}
		cel.Pixels = doc.arena.alloc(raw)

	case CelKindCompressedTilemap:
		tileSize, err := r.ReadSize()
		if err != nil {
			return nil, err
		}
		cel.TileSize = tileSize

		bitsPerTile, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		cel.BitsPerTile = int(bitsPerTile)

		if err := r.Skip(4 + 4 + 4); err != nil { // tile ID / X-flip / Y-flip / rotate bitmasks, fixed layout
			return nil, err
		}

		if err := r.Skip(10); err != nil { // reserved
			return nil, err
		}

		wordBytes := cel.BitsPerTile / 8
		if wordBytes <= 0 {
			wordBytes = 4
		}
		tileCount := int(tileSize.W) * int(tileSize.H)
		raw, err := inflateRemaining(r, tileCount*wordBytes)
		if err != nil {
			return nil, err
		}

		tiles, err := decodeTileWords(raw, wordBytes)
		if err != nil {
			return nil, err
		}
		cel.Tiles = tiles

	default:
		return nil, wrapAt(r.Pos(), ErrInvalidCelType)
	}

	return cel, nil
}

// inflateRemaining zlib-inflates every remaining byte of r's payload,
// expecting exactly wantLen bytes of output. Aseprite's compressed cel and
// tilemap streams run to the end of the chunk, so there is no separate
// compressed-length prefix to read.
func inflateRemaining(r *reader, wantLen int) ([]byte, error) {
	rest, err := r.readN(r.Len())
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, wrapAt(r.Pos(), ErrDecompressFailed)
	}
	defer zr.Close()

	out := make([]byte, wantLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, wrapAt(r.Pos(), ErrDecompressFailed)
	}
	return out, nil
}

const (
	tileIndexMask   uint32 = 0x1FFFFFFF
	tileFlipXMask   uint32 = 0x20000000
	tileFlipYMask   uint32 = 0x40000000
	tileFlipDiagMask uint32 = 0x80000000
)

// decodeTileWords unpacks a raw tilemap byte stream into tile words of the
// given width (1, 2 or 4 bytes), splitting each 32-bit word's high bits into
// flip/rotation flags per the tile bitmask layout.
func decodeTileWords(raw []byte, wordBytes int) ([]Tile, error) {
	if wordBytes <= 0 || len(raw)%wordBytes != 0 {
		return nil, ErrUnexpectedEnd
	}

	count := len(raw) / wordBytes
	tiles := make([]Tile, count)

	for i := 0; i < count; i++ {
		var word uint32
		off := i * wordBytes
		switch wordBytes {
		case 1:
			word = uint32(raw[off])
		case 2:
			word = uint32(raw[off]) | uint32(raw[off+1])<<8
		default:
			word = uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
		}

		var flip TileFlip
		if word&tileFlipXMask != 0 {
			flip |= TileFlipX
		}
		if word&tileFlipYMask != 0 {
			flip |= TileFlipY
		}
		if word&tileFlipDiagMask != 0 {
			flip |= TileFlipDiagonal
		}

		tiles[i] = Tile{Index: word & tileIndexMask, Flip: flip}
	}

	return tiles, nil
}
