package aseprite

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finalizeFileSize patches the 4-byte declared file size at the start of a
// fully assembled document so it matches the document's actual length, as
// Decode now checks this against the number of bytes it consumes.
func finalizeFileSize(data []byte) []byte {
	binary.LittleEndian.PutUint32(data[0:], uint32(len(data)))
	return data
}

func buildFileHeader(t *testing.T, frameCount, width, height uint16, depth ColorDepth, transparentIndex uint8) []byte {
	t.Helper()
	buf := make([]byte, 128)
	binary.LittleEndian.PutUint16(buf[4:], fileMagic)
	binary.LittleEndian.PutUint16(buf[6:], frameCount)
	binary.LittleEndian.PutUint16(buf[8:], width)
	binary.LittleEndian.PutUint16(buf[10:], height)
	binary.LittleEndian.PutUint16(buf[12:], uint16(depth))
	buf[28] = transparentIndex
	buf[34] = 1 // pixel width
	buf[35] = 1 // pixel height
	return buf
}

func buildFrame(t *testing.T, chunks [][]byte) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, c := range chunks {
		body.Write(c)
	}

	head := make([]byte, 16)
	binary.LittleEndian.PutUint32(head[0:], uint32(16+body.Len()))
	binary.LittleEndian.PutUint16(head[4:], frameMagic)
	binary.LittleEndian.PutUint16(head[6:], 0) // legacy chunk count, force modern
	binary.LittleEndian.PutUint16(head[8:], 0) // duration: inherit default
	binary.LittleEndian.PutUint32(head[12:], uint32(len(chunks)))

	return append(head, body.Bytes()...)
}

func buildChunk(t *testing.T, typ ChunkType, payload []byte) []byte {
	t.Helper()
	head := make([]byte, 6)
	binary.LittleEndian.PutUint32(head[0:], uint32(6+len(payload)))
	binary.LittleEndian.PutUint16(head[4:], uint16(typ))
	return append(head, payload...)
}

func buildLayerChunkPayload(t *testing.T, name string, visible bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	var flags uint16
	if visible {
		flags |= layerFlagVisible
	}
	writeUint16(&buf, flags)
	writeUint16(&buf, uint16(LayerTypeNormal))
	writeUint16(&buf, 0) // child level
	writeUint16(&buf, 0)
	writeUint16(&buf, 0)
	writeUint16(&buf, uint16(BlendModeNormal))
	buf.WriteByte(255) // opacity
	buf.Write(make([]byte, 3))
	writeString(&buf, name)
	return buf.Bytes()
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func buildCompressedImageCelPayload(t *testing.T, layerIndex uint16, w, h int32, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeUint16(&buf, layerIndex)
	writeUint16(&buf, 0) // x
	writeUint16(&buf, 0) // y
	buf.WriteByte(255)   // opacity
	writeUint16(&buf, uint16(CelKindCompressedImage))
	writeUint16(&buf, 0) // z-index
	buf.Write(make([]byte, 5))
	writeUint32(&buf, uint32(w))
	writeUint32(&buf, uint32(h))

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(pixels)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	buf.Write(compressed.Bytes())
	return buf.Bytes()
}

func TestDecodeMinimalOneByOneDocument(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	frame := buildFrame(t, nil)
	data := finalizeFileSize(append(header, frame...))

	doc, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, doc)
	defer doc.Release()

	assert.Equal(t, 1, doc.Header.Width)
	assert.Equal(t, 1, doc.Header.Height)
	assert.Equal(t, ColorDepthRGBA, doc.Header.ColorDepth)
	require.Len(t, doc.Frames, 1)
	assert.Empty(t, doc.Frames[0].Chunks)
}

func TestDecodeBadFileMagic(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	header[4] = 0x00 // corrupt magic
	header[5] = 0x00

	_, err := Decode(header)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadFileMagic)
}

func TestDecodeBadFrameMagic(t *testing.T) {
	header := buildFileHeader(t, 1, 4, 4, ColorDepthRGBA, 0)
	frame := buildFrame(t, nil)
	frame[4] = 0x00 // corrupt frame magic
	frame[5] = 0x00
	data := finalizeFileSize(append(header, frame...))

	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadFrameMagic)
}

func TestDecodeTruncatedStream(t *testing.T) {
	header := buildFileHeader(t, 1, 4, 4, ColorDepthRGBA, 0)
	data := header[:100] // cut inside the 128-byte file header

	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestDecodeLayerAndCompressedImageCel(t *testing.T) {
	header := buildFileHeader(t, 1, 2, 2, ColorDepthRGBA, 0)

	layerChunk := buildChunk(t, ChunkLayer, buildLayerChunkPayload(t, "background", true))

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	celChunk := buildChunk(t, ChunkCel, buildCompressedImageCelPayload(t, 0, 2, 2, pixels))

	frame := buildFrame(t, [][]byte{layerChunk, celChunk})
	data := finalizeFileSize(append(header, frame...))

	doc, err := Decode(data)
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames, 1)
	require.Len(t, doc.Frames[0].Chunks, 2)

	layer, ok := doc.Frames[0].Chunks[0].(*LayerChunk)
	require.True(t, ok)
	assert.Equal(t, "background", layer.Name)
	assert.True(t, layer.Visible)

	cel, ok := doc.Frames[0].Chunks[1].(*CelChunk)
	require.True(t, ok)
	assert.Equal(t, CelKindCompressedImage, cel.Kind)
	assert.Equal(t, pixels, cel.Pixels)
}

func TestDecodeSkipsUnknownChunkType(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	unknown := buildChunk(t, ChunkType(0xBEEF), []byte{1, 2, 3, 4})
	layerChunk := buildChunk(t, ChunkLayer, buildLayerChunkPayload(t, "fg", true))
	frame := buildFrame(t, [][]byte{unknown, layerChunk})
	data := finalizeFileSize(append(header, frame...))

	doc, err := Decode(data)
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames[0].Chunks, 1)
	_, ok := doc.Frames[0].Chunks[0].(*LayerChunk)
	assert.True(t, ok)
}

func TestDecodeStrictFailsOnUnknownChunkType(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	unknown := buildChunk(t, ChunkType(0xBEEF), []byte{1, 2, 3, 4})
	frame := buildFrame(t, [][]byte{unknown})
	data := finalizeFileSize(append(header, frame...))

	_, err := DecodeStrict(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunkType)
}

func TestDecodeIndexedDocumentTransparentIndex(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthIndexed, 7)
	frame := buildFrame(t, nil)
	data := finalizeFileSize(append(header, frame...))

	doc, err := Decode(data)
	require.NoError(t, err)
	defer doc.Release()

	assert.EqualValues(t, 7, doc.Header.TransparentIndex)
}

func TestDecodeTwoFrameTaggedAnimation(t *testing.T) {
	header := buildFileHeader(t, 2, 1, 1, ColorDepthRGBA, 0)

	var tagsPayload bytes.Buffer
	writeUint16(&tagsPayload, 1) // tag count
	tagsPayload.Write(make([]byte, 8))
	writeUint16(&tagsPayload, 0) // from
	writeUint16(&tagsPayload, 1) // to
	tagsPayload.WriteByte(byte(LoopDirectionForward))
	writeUint16(&tagsPayload, 0) // repeat
	tagsPayload.Write(make([]byte, 6))
	tagsPayload.Write(make([]byte, 3)) // legacy color
	tagsPayload.Write(make([]byte, 1))
	writeString(&tagsPayload, "walk")

	tagsChunk := buildChunk(t, ChunkTags, tagsPayload.Bytes())
	frame0 := buildFrame(t, [][]byte{tagsChunk})
	frame1 := buildFrame(t, nil)

	data := append(header, frame0...)
	data = finalizeFileSize(append(data, frame1...))

	doc, err := Decode(data)
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames, 2)
	require.Len(t, doc.Frames[0].Chunks, 1)

	tags, ok := doc.Frames[0].Chunks[0].(*TagsChunk)
	require.True(t, ok)
	require.Len(t, tags.Tags, 1)
	assert.Equal(t, "walk", tags.Tags[0].Name)
	assert.Equal(t, 0, tags.Tags[0].FromFrame)
	assert.Equal(t, 1, tags.Tags[0].ToFrame)
}

// buildUserDataPropertiesPayload builds a UserData chunk payload carrying a
// single extension map with one uint32-valued property, following the
// size-then-count-then-maps layout of the properties structure.
func buildUserDataPropertiesPayload(t *testing.T, extKey UUID, propKey string, propVal uint32) []byte {
	t.Helper()

	var mapBody bytes.Buffer
	writeUint32(&mapBody, 1) // property count within this map
	writeString(&mapBody, propKey)
	writeUint16(&mapBody, uint16(wireUint32))
	writeUint32(&mapBody, propVal)

	var structBody bytes.Buffer
	writeUint32(&structBody, 1) // map count
	structBody.Write(extKey[:])
	structBody.Write(mapBody.Bytes())

	var properties bytes.Buffer
	writeUint32(&properties, uint32(4+structBody.Len())) // declared size includes itself
	properties.Write(structBody.Bytes())

	var payload bytes.Buffer
	writeUint32(&payload, userDataFlagProperties)
	payload.Write(properties.Bytes())
	return payload.Bytes()
}

func TestDecodeUserDataProperties(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)

	extKey := UUID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
	udChunk := buildChunk(t, ChunkUserData, buildUserDataPropertiesPayload(t, extKey, "health", 42))
	frame := buildFrame(t, [][]byte{udChunk})
	data := finalizeFileSize(append(header, frame...))

	doc, err := Decode(data)
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames[0].Chunks, 1)
	ud, ok := doc.Frames[0].Chunks[0].(*UserDataChunk)
	require.True(t, ok)
	require.Len(t, ud.Properties, 1)
	assert.Equal(t, uuidString(extKey), ud.Properties[0].ExtensionKey)

	val, ok := ud.Properties[0].Values["health"]
	require.True(t, ok)
	assert.Equal(t, PropertyUint32, val.Type)
	assert.EqualValues(t, 42, val.Uint)
}

func TestDecodeUserDataPropertiesSizeMismatch(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)

	extKey := UUID{0x01}
	payload := buildUserDataPropertiesPayload(t, extKey, "health", 42)
	// corrupt the declared properties size (bytes 4:8, right after the flags field).
	binary.LittleEndian.PutUint32(payload[4:], 9999)

	udChunk := buildChunk(t, ChunkUserData, payload)
	frame := buildFrame(t, [][]byte{udChunk})
	data := finalizeFileSize(append(header, frame...))

	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSizeMismatch)
}

func TestDecodeSelectiveOnlyKeepsWantedChunkTypes(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	layerChunk := buildChunk(t, ChunkLayer, buildLayerChunkPayload(t, "bg", true))

	pixels := make([]byte, 1*1*4)
	celChunk := buildChunk(t, ChunkCel, buildCompressedImageCelPayload(t, 0, 1, 1, pixels))

	frame := buildFrame(t, [][]byte{layerChunk, celChunk})
	data := finalizeFileSize(append(header, frame...))

	doc, err := DecodeSelective(data, []ChunkType{ChunkLayer})
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames[0].Chunks, 1)
	_, ok := doc.Frames[0].Chunks[0].(*LayerChunk)
	assert.True(t, ok)
}

func TestDecodeChunkTypeKeepsOnlySingleVariant(t *testing.T) {
	header := buildFileHeader(t, 1, 1, 1, ColorDepthRGBA, 0)
	layerChunk := buildChunk(t, ChunkLayer, buildLayerChunkPayload(t, "bg", true))

	pixels := make([]byte, 1*1*4)
	celChunk := buildChunk(t, ChunkCel, buildCompressedImageCelPayload(t, 0, 1, 1, pixels))

	frame := buildFrame(t, [][]byte{layerChunk, celChunk})
	data := finalizeFileSize(append(header, frame...))

	doc, err := DecodeChunkType(data, ChunkCel)
	require.NoError(t, err)
	defer doc.Release()

	require.Len(t, doc.Frames[0].Chunks, 1)
	_, ok := doc.Frames[0].Chunks[0].(*CelChunk)
	assert.True(t, ok)
}
