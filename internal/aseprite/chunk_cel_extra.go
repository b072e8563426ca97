package aseprite

// CelExtraChunk carries the cel's precise (subpixel) bounds when the
// document was saved with the "advanced cel" feature enabled. It always
// follows the CelChunk it annotates.
type CelExtraChunk struct {
	X, Y, Width, Height float64
}

func (c *CelExtraChunk) Type() ChunkType { return ChunkCelExtra }

func decodeCelExtraChunk(r *reader) (*CelExtraChunk, error) {
	if _, err := r.ReadUint32(); err != nil { // flags, unused
		return nil, err
	}

	x, err := r.ReadFixed()
	if err != nil {
		return nil, err
	}
	y, err := r.ReadFixed()
	if err != nil {
		return nil, err
	}
	w, err := r.ReadFixed()
	if err != nil {
		return nil, err
	}
	h, err := r.ReadFixed()
	if err != nil {
		return nil, err
	}

	return &CelExtraChunk{X: x, Y: y, Width: w, Height: h}, nil
}
