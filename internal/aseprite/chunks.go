package aseprite

// dispatchPermissive decodes a chunk payload by type, returning a nil Chunk
// for any type it doesn't recognize instead of failing the whole document
// This is the default dispatch used by Decode.
func dispatchPermissive(doc *Document, typ ChunkType, payload []byte, frameIndex, layerIndexHint int) (Chunk, error) {
	r := newReader(payload)

	switch typ {
	case ChunkOldPalette256, ChunkOldPalette64:
		return decodeOldPaletteChunk(doc, r)
	case ChunkLayer:
		return decodeLayerChunk(doc, r)
	case ChunkCel:
		return decodeCelChunk(doc, r)
	case ChunkCelExtra:
		return decodeCelExtraChunk(r)
	case ChunkColorProfile:
		return decodeColorProfileChunk(doc, r)
	case ChunkExternalFiles:
		return decodeExternalFilesChunk(doc, r)
	case ChunkMask:
		return decodeMaskChunk(doc, r)
	case ChunkPath:
		return decodePathChunk(r)
	case ChunkTags:
		return decodeTagsChunk(doc, r)
	case ChunkPalette:
		return decodePaletteChunk(doc, r)
	case ChunkUserData:
		return decodeUserDataChunk(doc, r)
	case ChunkSlice:
		return decodeSliceChunk(doc, r)
	case ChunkTileset:
		return decodeTilesetChunk(doc, r)
	default:
		return nil, nil
	}
}

// dispatchStrict is identical to dispatchPermissive except it fails the
// decode outright on an unrecognized chunk type, for callers that want to
// detect documents saved by a newer, unsupported format revision rather
// than silently drop data.
func dispatchStrict(doc *Document, typ ChunkType, payload []byte, frameIndex, layerIndexHint int) (Chunk, error) {
	chunk, err := dispatchPermissive(doc, typ, payload, frameIndex, layerIndexHint)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, wrapAt(0, ErrInvalidChunkType)
	}
	return chunk, nil
}

// DecodeStrict decodes a document the same way Decode does, but fails on
// any chunk type it doesn't recognize instead of skipping it.
func DecodeStrict(data []byte) (*Document, error) {
	return decodeWithDispatch(data, dispatchStrict)
}

func decodeWithDispatch(data []byte, dispatch dispatchFunc) (*Document, error) {
	r := newReader(data)

	header, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Header: header,
		Frames: make([]Frame, 0, header.FrameCount),
		arena:  newArena(len(data)),
	}

	layerCount := 0
	for i := 0; i < int(header.FrameCount); i++ {
		frame, err := readFrame(r, doc, i, layerCount, dispatch)
		if err != nil {
			return nil, err
		}
		for _, c := range frame.Chunks {
			if _, ok := c.(*LayerChunk); ok {
				layerCount++
			}
		}
		doc.Frames = append(doc.Frames, frame)
	}

	if consumed := uint32(r.Pos()); consumed != header.FileSize {
		return nil, wrapAt(r.Pos(), ErrDataSizeMismatch)
	}

	return doc, nil
}

// wantedDispatch wraps a dispatchFunc so only chunk types present in wanted
// are decoded; every other type is skipped the same way permissive dispatch
// skips a type it doesn't recognize at all.
func wantedDispatch(inner dispatchFunc, wanted map[ChunkType]bool) dispatchFunc {
	return func(doc *Document, typ ChunkType, payload []byte, frameIndex, layerIndexHint int) (Chunk, error) {
		if !wanted[typ] {
			return nil, nil
		}
		return inner(doc, typ, payload, frameIndex, layerIndexHint)
	}
}

// DecodeSelective decodes a document but only materializes chunks whose type
// appears in wanted, discarding every other chunk's payload after reading
// past it. Useful for callers that only need, say, tags and slices out of a
// large document and want to skip the cost of decoding every cel.
func DecodeSelective(data []byte, wanted []ChunkType) (*Document, error) {
	set := make(map[ChunkType]bool, len(wanted))
	for _, t := range wanted {
		set[t] = true
	}
	return decodeWithDispatch(data, wantedDispatch(dispatchPermissive, set))
}

// DecodeChunkType decodes a document keeping only chunks of the single given
// type, e.g. pulling just the palette or just the tags out of a document
// without paying to decode cels or layers.
func DecodeChunkType(data []byte, typ ChunkType) (*Document, error) {
	return DecodeSelective(data, []ChunkType{typ})
}
