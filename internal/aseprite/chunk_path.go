package aseprite

// PathChunk is reserved for future use by the format and currently carries
// no payload. It decodes to an empty value so its presence doesn't trip the
// permissive-unknown-type path.
type PathChunk struct{}

func (c *PathChunk) Type() ChunkType { return ChunkPath }

func decodePathChunk(*reader) (*PathChunk, error) {
	return &PathChunk{}, nil
}
