// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package displaylist

import (
	"honnef.co/go/displaylist/encoding"
	"honnef.co/go/displaylist/jmath"
)

type peekState uint8

const (
	notPeeking peekState = iota
	// startPeeking makes the next call to Next leave the decoded item
	// in place for the call after it.
	startPeeking
	isPeeking
)

// Iterator decodes the items of a display list one at a time.
//
//	it := list.Iter()
//	for it.Next() {
//		switch item := it.SpecificItem().(type) {
//		...
//		}
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// Gradient stop items are consumed by the iterator; their stops are
// available from GradientStops on the gradient item that follows them.
type Iterator struct {
	list *BuiltDisplayList
	off  int

	cur            DisplayItem
	curStops       encoding.ItemRange
	curGlyphs      encoding.ItemRange
	curFilters     encoding.ItemRange
	curComplexClip encoding.ItemRange
	curClipCount   int

	peeking peekState
	err     error
}

func newIterator(list *BuiltDisplayList, off int) *Iterator {
	return &Iterator{list: list, off: off}
}

func (it *Iterator) DisplayList() *BuiltDisplayList { return it.list }

// Err returns the error that stopped iteration, if the list was malformed.
// The error matches encoding.ErrMalformed.
func (it *Iterator) Err() error { return it.err }

// Next advances to the next item and reports whether there is one.
func (it *Iterator) Next() bool {
	switch it.peeking {
	case isPeeking:
		it.peeking = notPeeking
		return true
	case startPeeking:
		it.peeking = isPeeking
	case notPeeking:
	}

	it.curStops = encoding.ItemRange{}
	it.curGlyphs = encoding.ItemRange{}
	it.curFilters = encoding.ItemRange{}
	it.curComplexClip = encoding.ItemRange{}
	it.curClipCount = 0

	data := it.list.data
	for {
		if it.err != nil || it.off >= len(data) {
			// Nothing was decoded, so there is nothing to hold on to.
			it.peeking = notPeeking
			return false
		}

		r := encoding.NewReaderAt(data[it.off:], it.off)
		di, ok := decodeItem(r)
		if !ok {
			return it.fail(r.Err())
		}

		switch di.Item.Kind() {
		case KindSetGradientStops:
			it.curStops, _ = r.SkipSequence(gradientStopSize, true)
			if r.Err() != nil {
				return it.fail(r.Err())
			}
			it.off = r.Offset()
			continue
		case KindClip, KindScrollFrame:
			it.curComplexClip, it.curClipCount = r.SkipSequence(complexClipRegionSize, true)
		case KindText:
			it.curGlyphs, _ = r.SkipSequence(glyphSize, true)
		case KindPushStackingContext:
			it.curFilters, _ = r.SkipSequence(minFilterOpSize, false)
		}
		if r.Err() != nil {
			return it.fail(r.Err())
		}

		it.off = r.Offset()
		it.cur = di
		return true
	}
}

func (it *Iterator) fail(err error) bool {
	it.err = err
	it.peeking = notPeeking
	it.cur = DisplayItem{}
	it.list.logger().Warn("malformed display list", "error", err, "offset", it.off)
	return false
}

// Peek decodes the next item without advancing past it: the following call
// to Next returns the same item. Repeated calls to Peek are idempotent.
func (it *Iterator) Peek() bool {
	if it.peeking == notPeeking {
		it.peeking = startPeeking
		return it.Next()
	}
	return true
}

// Item returns the current item.
func (it *Iterator) Item() DisplayItem { return it.cur }

func (it *Iterator) SpecificItem() SpecificItem { return it.cur.Item }

func (it *Iterator) Rect() jmath.Rect { return it.cur.Info.Rect }

func (it *Iterator) LocalClip() LocalClip { return it.cur.Info.LocalClip }

func (it *Iterator) ClipAndScroll() ClipAndScrollInfo { return it.cur.ClipAndScroll }

func (it *Iterator) IsBackfaceVisible() bool { return it.cur.Info.IsBackfaceVisible }

// PrimitiveInfo returns the placement of the current item moved by offset.
func (it *Iterator) PrimitiveInfo(offset jmath.Vector) PrimitiveInfo {
	return it.cur.Info.Translate(offset)
}

// GradientStops returns the stops pushed for the current item, or an empty
// range.
func (it *Iterator) GradientStops() encoding.ItemRange { return it.curStops }

func (it *Iterator) Glyphs() encoding.ItemRange { return it.curGlyphs }

func (it *Iterator) Filters() encoding.ItemRange { return it.curFilters }

// ComplexClip returns the complex clip regions of a clip or scroll frame
// and their number.
func (it *Iterator) ComplexClip() (encoding.ItemRange, int) {
	return it.curComplexClip, it.curClipCount
}

// StartingStackingContext advances to the next item and returns its
// stacking context, bounds and filters if it opens a stacking context.
func (it *Iterator) StartingStackingContext() (StackingContext, jmath.Rect, encoding.ItemRange, bool) {
	if !it.Next() {
		return StackingContext{}, jmath.Rect{}, encoding.ItemRange{}, false
	}
	sc, ok := it.cur.Item.(PushStackingContextItem)
	if !ok {
		return StackingContext{}, jmath.Rect{}, encoding.ItemRange{}, false
	}
	return sc.StackingContext, it.Rect(), it.Filters(), true
}

// SkipCurrentStackingContext advances past the end of the stacking context
// the iterator is in, including nested contexts. It reports whether the
// closing item was found; the list ending or being malformed first yields
// false.
func (it *Iterator) SkipCurrentStackingContext() bool {
	depth := 0
	for it.Next() {
		switch it.cur.Item.Kind() {
		case KindPushStackingContext:
			depth++
		case KindPopStackingContext:
			if depth == 0 {
				return true
			}
			depth--
		}
	}
	return false
}

// CurrentStackingContextEmpty reports whether the next item closes the
// current stacking context, or the list ends.
func (it *Iterator) CurrentStackingContextEmpty() bool {
	if !it.Peek() {
		return true
	}
	return it.cur.Item.Kind() == KindPopStackingContext
}

// SubIter returns a new iterator starting after the current item, or after
// the peeked item if the iterator is peeking.
func (it *Iterator) SubIter() *Iterator {
	return newIterator(it.list, it.off)
}
