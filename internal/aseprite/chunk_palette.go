package aseprite

// PaletteChunk is the palette in its modern representation, one RGBA entry
// per index with an optional per-entry name. Index 0 is always treated as
// transparent by the flattener regardless of what color it stores here,
// matching legacy behavior.
type PaletteChunk struct {
	Size    int
	FirstIndex int
	LastIndex  int
	Entries []PaletteEntry
}

// PaletteEntry is one palette slot.
type PaletteEntry struct {
	Color Pixel
	Name  string
}

func (c *PaletteChunk) Type() ChunkType { return ChunkPalette }

func decodePaletteChunk(doc *Document, r *reader) (*PaletteChunk, error) {
	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	first, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	last, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil { // reserved
		return nil, err
	}

	entries := make([]PaletteEntry, size)
	for i := first; i <= last; i++ {
		flags, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		rCh, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		g, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		a, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}

		entry := PaletteEntry{Color: Pixel{rCh, g, b, a}}
		if flags&1 != 0 {
			name, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			entry.Name = doc.arena.allocString(name)
		}
		if int(i) < len(entries) {
			entries[i] = entry
		}
	}

	return &PaletteChunk{Size: int(size), FirstIndex: int(first), LastIndex: int(last), Entries: entries}, nil
}

// OldPaletteChunk is the legacy palette representation (256- or 64-level),
// kept only so documents saved by older versions still decode; new
// documents carry a PaletteChunk instead.
type OldPaletteChunk struct {
	Entries []PaletteEntry
}

func (c *OldPaletteChunk) Type() ChunkType { return ChunkOldPalette256 }

func decodeOldPaletteChunk(doc *Document, r *reader) (*OldPaletteChunk, error) {
	packets, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	var entries []PaletteEntry
	skip := 0
	for p := uint16(0); p < packets; p++ {
		entriesToSkip, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		numColors, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		skip += int(entriesToSkip)
		count := int(numColors)
		if count == 0 {
			count = 256
		}
		for i := 0; i < count; i++ {
			rCh, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			g, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			b, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			entries = append(entries, PaletteEntry{Color: Pixel{rCh, g, b, 255}})
		}
	}

	return &OldPaletteChunk{Entries: entries}, nil
}
