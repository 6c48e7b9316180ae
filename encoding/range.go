package encoding

import (
	"fmt"
	"iter"
)

// ItemRange locates a counted sequence that hasn't been decoded yet. Start
// is the offset of the element count within the display list and Length
// covers the count and the elements. It is only checked against the buffer
// when the sequence is read.
type ItemRange struct {
	Start  int
	Length int
}

// IsEmpty reports whether the range has no room for any elements.
func (r ItemRange) IsEmpty() bool {
	return r.Length <= CountSize
}

// Slice returns the bytes of r within data.
func (r ItemRange) Slice(data []byte) ([]byte, error) {
	if r.Length == 0 {
		return nil, nil
	}
	if r.Start < 0 || r.Length < 0 || r.Start > len(data) || r.Length > len(data)-r.Start {
		return nil, &DecodeError{
			Offset: r.Start,
			What:   "item range",
			Err:    fmt.Errorf("%w: range [%d, +%d) exceeds %d bytes", ErrBadLength, r.Start, r.Length, len(data)),
		}
	}
	return data[r.Start : r.Start+r.Length], nil
}

// AuxIter lazily decodes the elements of a counted sequence. The count is
// read once, on construction; every call to Next decodes exactly one
// element. An AuxIter is single use, but any number of them can be created
// for the same range.
type AuxIter[T any] struct {
	r      *Reader
	cd     *Codec[T]
	remain int
}

// NewAuxIter returns an iterator over the sequence stored in data, which
// starts at offset base of the display list. Empty data is an empty
// sequence and no header is read. For fixed-size codecs the count must
// account for every remaining byte.
func NewAuxIter[T any](data []byte, base int, cd *Codec[T]) *AuxIter[T] {
	it := &AuxIter[T]{r: NewReaderAt(data, base), cd: cd}
	if len(data) == 0 {
		return it
	}
	count := it.r.U64()
	if it.r.err == nil && !countFits(count, it.r.Remaining(), cd.minSize(), cd.Size > 0) {
		it.r.off -= CountSize
		it.r.Fail("sequence count", fmt.Errorf("%w: %d elements in %d bytes", ErrBadLength, count, it.r.Remaining()))
	}
	if it.r.err == nil {
		it.remain = int(count)
	}
	return it
}

// RangeIter is NewAuxIter for an ItemRange of the list data.
func RangeIter[T any](data []byte, rng ItemRange, cd *Codec[T]) *AuxIter[T] {
	b, err := rng.Slice(data)
	if err != nil {
		return &AuxIter[T]{r: &Reader{err: err}, cd: cd}
	}
	return NewAuxIter(b, rng.Start, cd)
}

// Len returns the number of elements not yet decoded.
func (it *AuxIter[T]) Len() int { return it.remain }

func (it *AuxIter[T]) Err() error { return it.r.err }

// Next decodes the next element. It returns false at the end of the
// sequence or after a decoding error.
func (it *AuxIter[T]) Next() (T, bool) {
	if it.remain == 0 || it.r.err != nil {
		return *new(T), false
	}
	v := it.cd.Decode(it.r)
	if it.r.err != nil {
		it.remain = 0
		return *new(T), false
	}
	it.remain--
	return v, true
}

// All returns an iterator over the remaining elements. Check Err after the
// loop.
func (it *AuxIter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect decodes all remaining elements.
func (it *AuxIter[T]) Collect() ([]T, error) {
	out := make([]T, 0, it.remain)
	for v := range it.All() {
		out = append(out, v)
	}
	return out, it.Err()
}
