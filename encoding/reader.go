package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"honnef.co/go/displaylist/jmath"
)

var (
	// ErrMalformed is matched by every decoding failure.
	ErrMalformed = errors.New("malformed display list")

	ErrTruncated       = fmt.Errorf("%w: truncated", ErrMalformed)
	ErrBadDiscriminant = fmt.Errorf("%w: invalid discriminant", ErrMalformed)
	ErrBadLength       = fmt.Errorf("%w: inconsistent length", ErrMalformed)
)

// DecodeError describes where in a buffer decoding failed.
type DecodeError struct {
	// Offset is relative to the start of the display list.
	Offset int
	What   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s at offset %d: %s", e.What, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Reader decodes fixed-width fields from a byte slice. Errors are sticky:
// after the first failure every read returns a zero value and Err reports
// the failure.
type Reader struct {
	data []byte
	off  int
	// base is the offset of data[0] within the display list, for errors.
	base int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderAt is like NewReader for a slice that starts at offset base of
// a larger buffer.
func NewReaderAt(data []byte, base int) *Reader {
	return &Reader{data: data, base: base}
}

func (r *Reader) Err() error     { return r.err }
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Offset returns the position of the next read relative to the start of
// the display list.
func (r *Reader) Offset() int { return r.base + r.off }

// Rest returns the bytes that haven't been read yet.
func (r *Reader) Rest() []byte { return r.data[r.off:] }

// Fail records err unless an error has already been recorded.
func (r *Reader) Fail(what string, err error) {
	if r.err == nil {
		r.err = &DecodeError{Offset: r.Offset(), What: what, Err: err}
	}
}

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.Remaining() {
		r.Fail(what, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.Remaining()))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) {
	r.take(n, "payload")
}

func (r *Reader) U32() uint32 {
	b := r.take(4, "u32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.take(8, "u64")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }

func (r *Reader) Bool() bool {
	switch v := r.U32(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		r.off -= 4
		r.Fail("bool", fmt.Errorf("%w: %d", ErrBadDiscriminant, v))
		return false
	}
}

// Enum reads a u32 discriminant that must be below n.
func (r *Reader) Enum(what string, n uint32) uint32 {
	v := r.U32()
	if r.err == nil && v >= n {
		r.off -= 4
		r.Fail(what, fmt.Errorf("%w: %d", ErrBadDiscriminant, v))
		return 0
	}
	return v
}

// Len reads a u64 length that must not exceed what remains unread.
func (r *Reader) Len(what string) int {
	v := r.U64()
	if r.err == nil && v > uint64(r.Remaining()) {
		r.off -= 8
		r.Fail(what, fmt.Errorf("%w: %d bytes declared, %d remaining", ErrBadLength, v, r.Remaining()))
		return 0
	}
	return int(v)
}

func (r *Reader) Point() jmath.Point   { return jmath.Point{X: r.F32(), Y: r.F32()} }
func (r *Reader) Vector() jmath.Vector { return jmath.Vector{X: r.F32(), Y: r.F32()} }
func (r *Reader) Size() jmath.Size     { return jmath.Size{Width: r.F32(), Height: r.F32()} }
func (r *Reader) Rect() jmath.Rect     { return jmath.Rect{Origin: r.Point(), Size: r.Size()} }

func (r *Reader) SideOffsets() jmath.SideOffsets {
	return jmath.SideOffsets{Top: r.F32(), Right: r.F32(), Bottom: r.F32(), Left: r.F32()}
}

func (r *Reader) BorderRadius() jmath.BorderRadius {
	return jmath.BorderRadius{
		TopLeft:     r.Size(),
		TopRight:    r.Size(),
		BottomLeft:  r.Size(),
		BottomRight: r.Size(),
	}
}

func (r *Reader) Transform() jmath.Transform {
	var t jmath.Transform
	for i := range t.Matrix {
		t.Matrix[i] = r.F32()
	}
	t.Translation[0] = r.F32()
	t.Translation[1] = r.F32()
	return t
}

// SkipSequence reads the header of a counted sequence, skips its payload
// and returns the range it occupies together with its element count. When
// exact is set every element takes elemSize bytes and the payload must hold
// exactly count of them; otherwise elemSize is only a lower bound.
func (r *Reader) SkipSequence(elemSize int, exact bool) (ItemRange, int) {
	size := r.Len("sequence byte size")
	start := r.Offset()
	count := r.U64()
	if r.err != nil {
		return ItemRange{}, 0
	}
	if size > r.Remaining() {
		r.Fail("sequence", fmt.Errorf("%w: payload of %d bytes, %d remaining", ErrBadLength, size, r.Remaining()))
		return ItemRange{}, 0
	}
	if !countFits(count, size, elemSize, exact) {
		r.off -= CountSize
		r.Fail("sequence count", fmt.Errorf("%w: %d elements in %d bytes", ErrBadLength, count, size))
		return ItemRange{}, 0
	}
	r.Skip(size)
	return ItemRange{Start: start, Length: size + CountSize}, int(count)
}

func countFits(count uint64, size int, elemSize int, exact bool) bool {
	if !exact {
		return count <= uint64(size/max(elemSize, 1))
	}
	if elemSize <= 0 {
		return count == 0 && size == 0
	}
	return size%elemSize == 0 && count == uint64(size/elemSize)
}
