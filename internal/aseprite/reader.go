package aseprite

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// reader is a purely sequential little-endian byte cursor. It tracks the
// total number of bytes consumed since construction so decode errors can be
// reported with a byte offset. It never seeks.
type reader struct {
	r   *bytes.Reader
	pos int64
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data)}
}

// Pos returns the number of bytes consumed so far.
func (r *reader) Pos() int64 {
	return r.pos
}

// Len returns the number of bytes remaining.
func (r *reader) Len() int {
	return r.r.Len()
}

func (r *reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	r.pos += int64(read)
	if err != nil {
		return nil, wrapAt(r.pos, ErrUnexpectedEnd)
	}
	return buf, nil
}

// Skip discards n bytes without interpreting them. Used by the chunk
// decoders to step over reserved and unused fields.
func (r *reader) Skip(n int) error {
	_, err := r.readN(n)
	return err
}

func (r *reader) ReadUint8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *reader) ReadUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *reader) ReadUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *reader) ReadUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFixed reads a 32-bit 16.16 fixed-point value and returns it widened to
// a float64.
func (r *reader) ReadFixed() (float64, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	return float64(v) / 65536.0, nil
}

func (r *reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadUUID reads 16 raw bytes in their canonical byte order.
func (r *reader) ReadUUID() (UUID, error) {
	b, err := r.readN(16)
	if err != nil {
		return UUID{}, err
	}
	var u UUID
	copy(u[:], b)
	return u, nil
}

// ReadString reads a 16-bit length prefix followed by exactly that many
// UTF-8 bytes, validating the result.
func (r *reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wrapAt(r.pos, ErrInvalidUTF8)
	}
	return string(b), nil
}

// ReadPoint reads a point as two 32-bit signed integers.
func (r *reader) ReadPoint() (Point, error) {
	x, err := r.ReadInt32()
	if err != nil {
		return Point{}, err
	}
	y, err := r.ReadInt32()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// ReadSize reads a size as two 32-bit signed integers.
func (r *reader) ReadSize() (Size, error) {
	w, err := r.ReadInt32()
	if err != nil {
		return Size{}, err
	}
	h, err := r.ReadInt32()
	if err != nil {
		return Size{}, err
	}
	return Size{W: w, H: h}, nil
}

// ReadRect reads a rectangle as a point followed by a size.
func (r *reader) ReadRect() (Rect, error) {
	p, err := r.ReadPoint()
	if err != nil {
		return Rect{}, err
	}
	s, err := r.ReadSize()
	if err != nil {
		return Rect{}, err
	}
	return Rect{Point: p, Size: s}, nil
}
