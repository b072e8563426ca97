package atlas

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/karl-zylinski/atlas-builder/internal/aseprite"
	"github.com/stretchr/testify/require"
)

// The helpers in this file build minimal, literal Aseprite byte streams so
// flatten/tiles tests can exercise real decoded documents without
// depending on fixture files on disk.

func u16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func u32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func str(buf *bytes.Buffer, s string) {
	u16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func fileHeader(frameCount, width, height uint16, depth aseprite.ColorDepth) []byte {
	buf := make([]byte, 128)
	binary.LittleEndian.PutUint16(buf[4:], 0xA5E0)
	binary.LittleEndian.PutUint16(buf[6:], frameCount)
	binary.LittleEndian.PutUint16(buf[8:], width)
	binary.LittleEndian.PutUint16(buf[10:], height)
	binary.LittleEndian.PutUint16(buf[12:], uint16(depth))
	buf[34] = 1
	buf[35] = 1
	return buf
}

func chunk(typ uint16, payload []byte) []byte {
	head := make([]byte, 6)
	binary.LittleEndian.PutUint32(head[0:], uint32(6+len(payload)))
	binary.LittleEndian.PutUint16(head[4:], typ)
	return append(head, payload...)
}

func frame(chunks [][]byte) []byte {
	var body bytes.Buffer
	for _, c := range chunks {
		body.Write(c)
	}
	head := make([]byte, 16)
	binary.LittleEndian.PutUint32(head[0:], uint32(16+body.Len()))
	binary.LittleEndian.PutUint16(head[4:], 0xF1FA)
	binary.LittleEndian.PutUint32(head[12:], uint32(len(chunks)))
	return append(head, body.Bytes()...)
}

func layerChunkPayload(visible bool) []byte {
	var buf bytes.Buffer
	var flags uint16
	if visible {
		flags = 1
	}
	u16(&buf, flags)
	u16(&buf, 0) // normal layer
	u16(&buf, 0) // child level
	u16(&buf, 0)
	u16(&buf, 0)
	u16(&buf, 0) // blend mode normal
	buf.WriteByte(255)
	buf.Write(make([]byte, 3))
	str(&buf, "layer")
	return buf.Bytes()
}

func compressedImageCelPayload(t *testing.T, layerIndex uint16, w, h int32, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	u16(&buf, layerIndex)
	u16(&buf, 0)
	u16(&buf, 0)
	buf.WriteByte(255)
	u16(&buf, 2) // CelKindCompressedImage
	u16(&buf, 0)
	buf.Write(make([]byte, 5))
	u32(&buf, uint32(w))
	u32(&buf, uint32(h))

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(pixels)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	buf.Write(compressed.Bytes())
	return buf.Bytes()
}

func decodeTestDoc(t *testing.T, data []byte) *aseprite.Document {
	t.Helper()
	// Patch the declared file size so it matches the assembled stream, as
	// Decode checks the bytes it consumes against it.
	binary.LittleEndian.PutUint32(data[0:], uint32(len(data)))
	doc, err := aseprite.Decode(data)
	require.NoError(t, err)
	return doc
}
