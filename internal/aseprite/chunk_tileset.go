package aseprite

const (
	tilesetFlagExternalFile uint32 = 1 << 0
	tilesetFlagEmbedded     uint32 = 1 << 1
)

// TilesetChunk defines one reusable tile source: its tile dimensions, tile
// count, and either an embedded compressed image (handled like a
// CompressedImage cel) or a reference to an external file.
type TilesetChunk struct {
	ID          int
	TileSize    Size
	TileCount   int
	Name        string
	ExternalFileID int
	ExternalTilesetID int
	Pixels      []byte // embedded only; BytesPerPixel-wide, TileCount tiles stacked vertically
}

func (c *TilesetChunk) Type() ChunkType { return ChunkTileset }

func decodeTilesetChunk(doc *Document, r *reader) (*TilesetChunk, error) {
	id, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	flags, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	tileCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	tileW, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	tileH, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if _, err := r.ReadInt16(); err != nil { // base index, unused
		return nil, err
	}

	if err := r.Skip(14); err != nil { // reserved
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	chunk := &TilesetChunk{
		ID:        int(id),
		TileSize:  Size{W: int32(tileW), H: int32(tileH)},
		TileCount: int(tileCount),
		Name:      doc.arena.allocString(name),
	}

	if flags&tilesetFlagExternalFile != 0 {
		fileID, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		tilesetID, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		chunk.ExternalFileID = int(fileID)
		chunk.ExternalTilesetID = int(tilesetID)
	}

	if flags&tilesetFlagEmbedded != 0 {
		dataLen, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		wantLen := int(tileW) * int(tileH) * int(tileCount) * doc.Header.ColorDepth.BytesPerPixel()
		raw, err := inflateRemaining(r, wantLen)
		if err != nil {
			return nil, err
		}
		_ = dataLen
		chunk.Pixels = doc.arena.alloc(raw)
	}

	return chunk, nil
}
