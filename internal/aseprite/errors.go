package aseprite

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors identifying the structural and semantic failure classes a
// document decode can hit. They're wrapped by DecodeError so callers can
// still errors.Is against them after unwrapping.
var (
	ErrBadFileMagic          = errors.New("bad file magic")
	ErrBadFrameMagic         = errors.New("bad frame magic")
	ErrUnexpectedEnd         = errors.New("unexpected end of stream")
	ErrDataSizeMismatch      = errors.New("stream length disagrees with declared file size")
	ErrInvalidChunkType      = errors.New("invalid chunk type")
	ErrInvalidCelType        = errors.New("invalid cel type")
	ErrInvalidPropertyType   = errors.New("invalid property type")
	ErrInvalidUTF8           = errors.New("invalid utf-8 string")
	ErrMissingPaletteIndexed = errors.New("indexed document has no palette chunk")
	ErrDecompressFailed      = errors.New("decompress failed")
)

// DecodeError wraps a sentinel decode error with the byte offset at which it
// occurred, per the error-reporting requirement that every structural
// failure carries its position in the stream. The offset is measured from
// the start of the document being decoded, not the whole batch.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("aseprite: at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wrapAt builds a DecodeError carrying the current reader offset, with a
// stack trace captured at the point of failure (via github.com/pkg/errors)
// for diagnostic logging upstream.
func wrapAt(offset int64, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Offset: offset, Err: errors.WithStack(err)}
}
