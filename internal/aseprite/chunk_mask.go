package aseprite

// MaskChunk is the deprecated legacy selection-mask chunk. Aseprite stopped
// writing it after masks moved into layers; it's decoded only so files that
// still carry it don't fail outright, and carries no data the flattener
// consumes.
type MaskChunk struct {
	Bounds Rect
	Name   string
}

func (c *MaskChunk) Type() ChunkType { return ChunkMask }

func decodeMaskChunk(doc *Document, r *reader) (*MaskChunk, error) {
	x, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}
	y, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}
	w, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	h, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(8); err != nil { // reserved
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	return &MaskChunk{
		Bounds: Rect{Point: Point{X: int32(x), Y: int32(y)}, Size: Size{W: int32(w), H: int32(h)}},
		Name:   doc.arena.allocString(name),
	}, nil
}
