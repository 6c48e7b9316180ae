// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package displaylist

import (
	"fmt"
	"io"
	"log/slog"

	"honnef.co/go/displaylist/encoding"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/profiler"
)

// Descriptor holds the timestamps of a display list's life, in nanoseconds
// of the builder's clock. A zero timestamp hasn't been recorded yet.
type Descriptor struct {
	// BuilderStartTime is taken when the builder is created.
	BuilderStartTime uint64 `cbor:"1,keyasint"`
	// BuilderFinishTime is taken when the builder is finalized.
	BuilderFinishTime uint64 `cbor:"2,keyasint"`
	// SendStartTime is taken when the list is handed off for transport.
	SendStartTime uint64 `cbor:"3,keyasint"`
}

// BuiltDisplayList is a finalized display list. Its data is never modified,
// so any number of goroutines may iterate it at the same time.
type BuiltDisplayList struct {
	data       []byte
	descriptor Descriptor

	clock profiler.Clock
	log   *slog.Logger
}

// FromData wraps data received from a builder in another process. The data
// is validated lazily, while iterating.
func FromData(data []byte, descriptor Descriptor) *BuiltDisplayList {
	return &BuiltDisplayList{
		data:       data,
		descriptor: descriptor,
		clock:      profiler.Monotonic,
	}
}

func (l *BuiltDisplayList) Data() []byte { return l.data }

func (l *BuiltDisplayList) Descriptor() Descriptor { return l.descriptor }

// Times returns the builder start, builder finish and send start times.
func (l *BuiltDisplayList) Times() (uint64, uint64, uint64) {
	return l.descriptor.BuilderStartTime,
		l.descriptor.BuilderFinishTime,
		l.descriptor.SendStartTime
}

// IntoData hands the list off for transport, recording the send start time
// on the first call. The list must not be used concurrently with IntoData.
func (l *BuiltDisplayList) IntoData() ([]byte, Descriptor) {
	if l.descriptor.SendStartTime == 0 {
		l.descriptor.SendStartTime = l.clock.Now()
	}
	return l.data, l.descriptor
}

func (l *BuiltDisplayList) logger() *slog.Logger {
	if l.log == nil {
		return Logger()
	}
	return l.log
}

// Iter returns an iterator positioned before the first item.
func (l *BuiltDisplayList) Iter() *Iterator {
	return newIterator(l, 0)
}

// Glyphs returns a reader for the glyphs of a text item.
func (l *BuiltDisplayList) Glyphs(r encoding.ItemRange) *encoding.AuxIter[GlyphInstance] {
	return encoding.RangeIter(l.data, r, glyphCodec)
}

// GradientStops returns a reader for the stops preceding a gradient item.
func (l *BuiltDisplayList) GradientStops(r encoding.ItemRange) *encoding.AuxIter[gfx.GradientStop] {
	return encoding.RangeIter(l.data, r, gradientStopCodec)
}

// Filters returns a reader for the filters of a stacking context.
func (l *BuiltDisplayList) Filters(r encoding.ItemRange) *encoding.AuxIter[gfx.FilterOp] {
	return encoding.RangeIter(l.data, r, filterCodec)
}

// ComplexClips returns a reader for the regions of a clip or scroll frame.
func (l *BuiltDisplayList) ComplexClips(r encoding.ItemRange) *encoding.AuxIter[ComplexClipRegion] {
	return encoding.RangeIter(l.data, r, complexClipCodec)
}

// Dump writes one line per item, followed by the item's auxiliary
// sequences, to w. It stops at the first malformed item and returns its
// error.
func (l *BuiltDisplayList) Dump(w io.Writer) error {
	it := l.Iter()
	for it.Next() {
		di := it.Item()
		if _, err := fmt.Fprintf(w, "%s %+v scope=%v rect=%v\n", di.Item.Kind(), di.Item, di.ClipAndScroll.ScrollNode, di.Info.Rect); err != nil {
			return err
		}
		if err := dumpAux(w, "stops", l.GradientStops(it.GradientStops())); err != nil {
			return err
		}
		if err := dumpAux(w, "glyphs", l.Glyphs(it.Glyphs())); err != nil {
			return err
		}
		if err := dumpAux(w, "filters", l.Filters(it.Filters())); err != nil {
			return err
		}
		rng, _ := it.ComplexClip()
		if err := dumpAux(w, "complex_clips", l.ComplexClips(rng)); err != nil {
			return err
		}
	}
	return it.Err()
}

func dumpAux[T any](w io.Writer, name string, it *encoding.AuxIter[T]) error {
	if it.Len() == 0 {
		return it.Err()
	}
	elems, err := it.Collect()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\t%s(%d): %v\n", name, len(elems), elems)
	return err
}
