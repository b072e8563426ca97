package aseprite

const (
	sliceFlag9Patch       uint32 = 1 << 0
	sliceFlagPivot        uint32 = 1 << 1
)

// SliceKey is one keyframe of a slice: the frame at which it starts
// applying, its bounds, and optional 9-patch/pivot data.
type SliceKey struct {
	FromFrame  int
	Bounds     Rect
	CenterRect Rect // valid only when the parent slice Has9Patch
	Pivot      Point
}

// SliceChunk names a region of the canvas, optionally animated across
// frames via multiple keys.
type SliceChunk struct {
	Name     string
	Has9Patch bool
	HasPivot  bool
	Keys      []SliceKey
}

func (c *SliceChunk) Type() ChunkType { return ChunkSlice }

func decodeSliceChunk(doc *Document, r *reader) (*SliceChunk, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	flags, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if _, err := r.ReadUint32(); err != nil { // reserved
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	chunk := &SliceChunk{
		Name:      doc.arena.allocString(name),
		Has9Patch: flags&sliceFlag9Patch != 0,
		HasPivot:  flags&sliceFlagPivot != 0,
		Keys:      make([]SliceKey, 0, count),
	}

	for i := uint32(0); i < count; i++ {
		fromFrame, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		bounds, err := r.ReadRect()
		if err != nil {
			return nil, err
		}

		key := SliceKey{FromFrame: int(fromFrame), Bounds: bounds}

		if chunk.Has9Patch {
			center, err := r.ReadRect()
			if err != nil {
				return nil, err
			}
			key.CenterRect = center
		}
		if chunk.HasPivot {
			pivot, err := r.ReadPoint()
			if err != nil {
				return nil, err
			}
			key.Pivot = pivot
		}

		chunk.Keys = append(chunk.Keys, key)
	}

	return chunk, nil
}
