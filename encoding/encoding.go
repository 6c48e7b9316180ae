// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package encoding implements the byte-level format of display lists: an
// append-only little-endian buffer of fixed-width fields, counted auxiliary
// sequences and the lazy readers that walk them without copying.
package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
	"slices"

	"honnef.co/go/displaylist/jmath"
)

// CountSize is the size of the element count header of a counted sequence.
// It is also the size of the byte size field that precedes it.
const CountSize = 8

// Writer is the growable buffer display items are appended to.
type Writer struct {
	buf     []byte
	scratch []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

// Truncate discards everything after the first n bytes.
func (w *Writer) Truncate(n int) {
	if n < 0 || n > len(w.buf) {
		panic(fmt.Sprintf("encoding: truncate to %d out of range [0, %d]", n, len(w.buf)))
	}
	w.buf = w.buf[:n]
}

func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.scratch = w.scratch[:0]
}

// Detach returns the written bytes and leaves the writer empty. The writer
// no longer references the returned slice.
func (w *Writer) Detach() []byte {
	b := w.buf
	w.buf = nil
	return b
}

func (w *Writer) Append(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reserve grows the buffer by exactly n bytes and returns a cursor over
// them. The cursor must be filled completely before the next call to any
// other method of w.
func (w *Writer) Reserve(n int) Cursor {
	w.buf = slices.Grow(w.buf, n)
	off := len(w.buf)
	w.buf = w.buf[:off+n]
	return Cursor{b: w.buf[off : off+n : off+n]}
}

// PatchU64 overwrites the 8 bytes at off without changing the length.
func (w *Writer) PatchU64(off int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[off:off+8], v)
}

// Cursor writes fixed-width fields into space reserved by Writer.Reserve.
// Writing past the reservation panics, as does finishing before it is full:
// either means a value's encoded size is not what it declared.
type Cursor struct {
	b       []byte
	n       int
	measure bool
}

// Measure runs put against a cursor that only counts bytes and returns the
// count.
func Measure(put func(c *Cursor)) int {
	c := Cursor{measure: true}
	put(&c)
	return c.n
}

func (c *Cursor) PutU32(v uint32) {
	if !c.measure {
		binary.LittleEndian.PutUint32(c.b[c.n:], v)
	}
	c.n += 4
}

func (c *Cursor) PutU64(v uint64) {
	if !c.measure {
		binary.LittleEndian.PutUint64(c.b[c.n:], v)
	}
	c.n += 8
}

func (c *Cursor) PutF32(v float32) { c.PutU32(math.Float32bits(v)) }

func (c *Cursor) PutBool(v bool) {
	if v {
		c.PutU32(1)
	} else {
		c.PutU32(0)
	}
}

func (c *Cursor) PutPoint(p jmath.Point) {
	c.PutF32(p.X)
	c.PutF32(p.Y)
}

func (c *Cursor) PutVector(v jmath.Vector) {
	c.PutF32(v.X)
	c.PutF32(v.Y)
}

func (c *Cursor) PutSize(s jmath.Size) {
	c.PutF32(s.Width)
	c.PutF32(s.Height)
}

func (c *Cursor) PutRect(r jmath.Rect) {
	c.PutPoint(r.Origin)
	c.PutSize(r.Size)
}

func (c *Cursor) PutSideOffsets(s jmath.SideOffsets) {
	c.PutF32(s.Top)
	c.PutF32(s.Right)
	c.PutF32(s.Bottom)
	c.PutF32(s.Left)
}

func (c *Cursor) PutBorderRadius(br jmath.BorderRadius) {
	c.PutSize(br.TopLeft)
	c.PutSize(br.TopRight)
	c.PutSize(br.BottomLeft)
	c.PutSize(br.BottomRight)
}

func (c *Cursor) PutTransform(t jmath.Transform) {
	for _, v := range t.Matrix {
		c.PutF32(v)
	}
	c.PutF32(t.Translation[0])
	c.PutF32(t.Translation[1])
}

func (c *Cursor) Written() int { return c.n }

func (c *Cursor) Finish() {
	if c.n != len(c.b) {
		panic(fmt.Sprintf("encoding: reserved %d bytes but wrote %d", len(c.b), c.n))
	}
}

// Encoded sizes of the geometry types.
const (
	SizePoint        = 8
	SizeVector       = 8
	SizeSize         = 8
	SizeRect         = 16
	SizeSideOffsets  = 16
	SizeBorderRadius = 32
	SizeTransform    = 24
)

// Codec describes how values of type T are encoded and decoded.
//
// A codec with a non-zero Size encodes every value in exactly Size bytes
// using Put, which lets the encoder reserve space once and write in place.
// Types whose size depends on their contents set Size to 0 and provide
// Append instead; they are encoded once into scratch space and copied.
type Codec[T any] struct {
	Size   int
	Put    func(c *Cursor, v T)
	Append func(dst []byte, v T) []byte
	Decode func(r *Reader) T

	// MinSize is a lower bound of the encoded size, used to reject element
	// counts that cannot possibly fit. It defaults to Size.
	MinSize int

	// Check, if set, reports values that Decode would reject. Encoding
	// doesn't call it; producers check values before encoding them.
	Check func(v T) error

	// POD marks T as a padding-free HostLayout struct whose in-memory
	// representation on a little-endian host is identical to its encoding.
	POD bool
}

func (cd *Codec[T]) minSize() int {
	if cd.MinSize > 0 {
		return cd.MinSize
	}
	return cd.Size
}

// EncodeValue appends the encoding of v to w.
func EncodeValue[T any](w *Writer, cd *Codec[T], v T) {
	if cd.Size > 0 {
		c := w.Reserve(cd.Size)
		cd.Put(&c, v)
		c.Finish()
		return
	}
	w.scratch = cd.Append(w.scratch[:0], v)
	w.buf = append(w.buf, w.scratch...)
}

// EncodeSequence appends a counted sequence holding elems and returns the
// number of elements written.
func EncodeSequence[T any](w *Writer, cd *Codec[T], elems []T) int {
	if cd.POD && podFastPath {
		off := beginSequence(w, len(elems))
		appendPODs(w, elems)
		finishSequence(w, off)
		return len(elems)
	}
	return EncodeSeq(w, cd, len(elems), slices.Values(elems))
}

// EncodeSeq is like EncodeSequence but takes the declared element count and
// an iterator. The caller should compare the returned count to n; a
// mismatch means seq does not produce what it claimed.
func EncodeSeq[T any](w *Writer, cd *Codec[T], n int, seq iter.Seq[T]) int {
	off := beginSequence(w, n)
	count, written := 0, 0
	if cd.Size > 0 {
		// All elements have the same size, reserve the payload in one go.
		c := w.Reserve(n * cd.Size)
		for v := range seq {
			count++
			if count > n {
				// Writing past the reservation would corrupt the buffer.
				continue
			}
			cd.Put(&c, v)
		}
		written = min(count, n)
		if written != n {
			// Give back the unused reservation so the byte size stays truthful.
			w.buf = w.buf[:len(w.buf)-len(c.b)+c.n]
		}
	} else {
		for v := range seq {
			EncodeValue(w, cd, v)
			count++
		}
		written = count
	}
	if written != n {
		binary.LittleEndian.PutUint64(w.buf[off+CountSize:], uint64(written))
	}
	finishSequence(w, off)
	return count
}

// beginSequence writes a placeholder byte size and the element count, and
// returns the offset of the placeholder.
func beginSequence(w *Writer, n int) int {
	off := w.Len()
	c := w.Reserve(2 * CountSize)
	c.PutU64(0)
	c.PutU64(uint64(n))
	c.Finish()
	return off
}

func finishSequence(w *Writer, off int) {
	payload := w.Len() - (off + 2*CountSize)
	w.PatchU64(off, uint64(payload))
}
