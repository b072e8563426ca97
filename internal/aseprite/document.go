package aseprite

import "time"

// FileHeader is the Aseprite file header: 128 bytes of canvas and encoding
// metadata preceding the frame sequence.
type FileHeader struct {
	FileSize             uint32
	FrameCount           uint16
	Width, Height        int
	ColorDepth           ColorDepth
	Flags                uint32
	LayersHaveOpacity    bool
	DefaultFrameDuration time.Duration
	TransparentIndex     uint8
	PaletteSize          uint16
	PixelWidth           uint8
	PixelHeight          uint8
}

// layersHaveOpacityFlag is bit 0 of the file header flags field.
const layersHaveOpacityFlag uint32 = 1

// Document is a fully decoded Aseprite sprite: the file header plus an
// ordered sequence of frames, all of whose byte slices and strings are
// owned by the document's arena. The document is immutable once decoded;
// Release invalidates every slice borrowed from it.
type Document struct {
	Header FileHeader
	Frames []Frame
	arena  *arena
}

// Release invalidates the document's arena. Downstream code must not retain
// any slice or string borrowed from this document past this call.
func (d *Document) Release() {
	d.arena.release()
}

// readFileHeader decodes the 128-byte file header, verifying the file magic.
func readFileHeader(r *reader) (FileHeader, error) {
	fileSize, err := r.ReadUint32()
	if err != nil {
		return FileHeader{}, err
	}

	magic, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}
	if magic != fileMagic {
		return FileHeader{}, wrapAt(r.Pos(), ErrBadFileMagic)
	}

	frameCount, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	width, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	height, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	depthBits, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	flags, err := r.ReadUint32()
	if err != nil {
		return FileHeader{}, err
	}

	speedMS, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	if err := r.Skip(8); err != nil { // reserved
		return FileHeader{}, err
	}

	transparentIndex, err := r.ReadUint8()
	if err != nil {
		return FileHeader{}, err
	}

	if err := r.Skip(3); err != nil { // reserved
		return FileHeader{}, err
	}

	paletteSize, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}

	pixelWidth, err := r.ReadUint8()
	if err != nil {
		return FileHeader{}, err
	}

	pixelHeight, err := r.ReadUint8()
	if err != nil {
		return FileHeader{}, err
	}

	if err := r.Skip(2 + 2 + 2 + 2); err != nil { // grid x/y/width/height
		return FileHeader{}, err
	}

	if err := r.Skip(84); err != nil { // reserved
		return FileHeader{}, err
	}

	if pixelWidth == 0 {
		pixelWidth = 1
	}
	if pixelHeight == 0 {
		pixelHeight = 1
	}

	return FileHeader{
		FileSize:             fileSize,
		FrameCount:           frameCount,
		Width:                int(width),
		Height:               int(height),
		ColorDepth:           ColorDepth(depthBits),
		Flags:                flags,
		LayersHaveOpacity:    flags&layersHaveOpacityFlag != 0,
		DefaultFrameDuration: time.Duration(speedMS) * time.Millisecond,
		TransparentIndex:     transparentIndex,
		PaletteSize:          paletteSize,
		PixelWidth:           pixelWidth,
		PixelHeight:          pixelHeight,
	}, nil
}

// Decode fully decodes an Aseprite document from data, skipping unknown
// chunk types permissively so forward-compatible files remain readable
// Every per-document allocation flows through the returned
// document's arena; call Release when done with it.
func Decode(data []byte) (*Document, error) {
	return decodeWithDispatch(data, dispatchPermissive)
}
