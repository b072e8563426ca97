package aseprite

// ColorProfileType distinguishes an embedded ICC profile from the built-in
// sRGB profile.
type ColorProfileType uint16

const (
	ColorProfileNone ColorProfileType = iota
	ColorProfileSRGB
	ColorProfileICC
)

// ColorProfileChunk records the document's color profile. An embedded ICC
// profile is kept verbatim and unparsed; nothing downstream interprets it.
type ColorProfileChunk struct {
	ProfileType ColorProfileType
	Gamma       float64
	ICCData     []byte
}

func (c *ColorProfileChunk) Type() ChunkType { return ChunkColorProfile }

func decodeColorProfileChunk(doc *Document, r *reader) (*ColorProfileChunk, error) {
	typ, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if _, err := r.ReadUint16(); err != nil { // flags, fixed-gamma bit unused
		return nil, err
	}

	gamma, err := r.ReadFixed()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(8); err != nil { // reserved
		return nil, err
	}

	chunk := &ColorProfileChunk{ProfileType: ColorProfileType(typ), Gamma: gamma}

	if chunk.ProfileType == ColorProfileICC {
		iccLen, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		raw, err := r.readN(int(iccLen))
		if err != nil {
			return nil, err
		}
		chunk.ICCData = doc.arena.alloc(raw)
	}

	return chunk, nil
}
