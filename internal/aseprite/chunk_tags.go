package aseprite

// LoopDirection is an animation tag's playback direction. An unrecognized
// value on the wire falls back to LoopDirectionForward rather than failing
// the decode.
type LoopDirection uint8

const (
	LoopDirectionForward LoopDirection = iota
	LoopDirectionReverse
	LoopDirectionPingPong
	LoopDirectionPingPongReverse
)

// Tag names a contiguous range of frames as one named animation.
type Tag struct {
	FromFrame int
	ToFrame   int
	Direction LoopDirection
	Repeat    int
	Name      string
}

// TagsChunk lists every animation tag defined on the document, in file
// order.
type TagsChunk struct {
	Tags []Tag
}

func (c *TagsChunk) Type() ChunkType { return ChunkTags }

func decodeTagsChunk(doc *Document, r *reader) (*TagsChunk, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(8); err != nil { // reserved
		return nil, err
	}

	tags := make([]Tag, 0, count)
	for i := uint16(0); i < count; i++ {
		from, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		to, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		direction, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		repeat, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(6); err != nil { // reserved
			return nil, err
		}
		if err := r.Skip(3); err != nil { // legacy tag color, superseded by user data
			return nil, err
		}
		if err := r.Skip(1); err != nil { // reserved
			return nil, err
		}
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		dir := LoopDirection(direction)
		if dir > LoopDirectionPingPongReverse {
			dir = LoopDirectionForward
		}

		tags = append(tags, Tag{
			FromFrame: int(from),
			ToFrame:   int(to),
			Direction: dir,
			Repeat:    int(repeat),
			Name:      doc.arena.allocString(name),
		})
	}

	return &TagsChunk{Tags: tags}, nil
}
