// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package displaylist builds and reads display lists: flat, append-only
// byte streams of drawing and scope-defining items, each optionally followed
// by counted sequences of glyphs, gradient stops, filters or clip regions.
//
// A [Builder] encodes items as they are pushed and is finalized into an
// immutable [BuiltDisplayList]. Any number of [Iterator]s may then walk the
// list concurrently, decoding one item at a time. Malformed lists are
// reported through [Iterator.Err] and never cause a panic.
package displaylist

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"honnef.co/go/displaylist/encoding"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
	"honnef.co/go/displaylist/profiler"
)

// The root scroll node uses id 0.
const firstClipID = 1

type saveState struct {
	dataLen      int
	clipStackLen int
	nextClipID   uint64
}

type BuilderOptions struct {
	// Capacity is the initial size of the item buffer in bytes.
	Capacity int
	// Clock stamps the descriptor of the finalized list. It defaults to
	// profiler.Monotonic.
	Clock profiler.Clock
	// Logger defaults to the package logger.
	Logger *slog.Logger
}

// Builder constructs a display list for one pipeline. A Builder must not be
// used concurrently.
//
// Usage errors, like popping the root scope or restoring without a save,
// cause panics.
type Builder struct {
	w           *encoding.Writer
	pipeline    PipelineID
	clipStack   []ClipAndScrollInfo
	nextClipID  uint64
	startTime   uint64
	contentSize jmath.Size
	save        Option[saveState]

	clock profiler.Clock
	log   *slog.Logger
}

func NewBuilder(pipeline PipelineID, contentSize jmath.Size) *Builder {
	return NewBuilderWithOptions(pipeline, contentSize, BuilderOptions{})
}

func NewBuilderWithOptions(pipeline PipelineID, contentSize jmath.Size, opts BuilderOptions) *Builder {
	if opts.Clock == nil {
		opts.Clock = profiler.Monotonic
	}
	if opts.Logger == nil {
		opts.Logger = Logger()
	}
	return &Builder{
		w:        encoding.NewWriter(opts.Capacity),
		pipeline: pipeline,
		clipStack: []ClipAndScrollInfo{
			SimpleClipAndScroll(RootScrollNode(pipeline)),
		},
		nextClipID:  firstClipID,
		startTime:   opts.Clock.Now(),
		contentSize: contentSize,
		clock:       opts.Clock,
		log:         opts.Logger.With("pipeline", pipeline),
	}
}

func (b *Builder) PipelineID() PipelineID { return b.pipeline }

// Data returns the bytes encoded so far. They are only valid until the
// next call to a method of b.
func (b *Builder) Data() []byte { return b.w.Bytes() }

func (b *Builder) Len() int { return b.w.Len() }

// Scope returns the innermost scope. Items are pushed in it unless stated
// otherwise.
func (b *Builder) Scope() ClipAndScrollInfo {
	return b.clipStack[len(b.clipStack)-1]
}

// ScopeDepth returns the number of scopes on the stack, including the root
// scroll node.
func (b *Builder) ScopeDepth() int { return len(b.clipStack) }

// Save records the state of the builder so that a later call to Restore can
// undo everything pushed in the meantime. Saves don't nest, and scopes
// pushed before the save must not be popped until the save is restored or
// cleared. Either Restore or ClearSave must be called before Finalize.
func (b *Builder) Save() {
	if b.save.IsSet() {
		panic("displaylist: Builder doesn't support nested saves")
	}
	b.log.Debug("saving display list", "offset", b.w.Len())
	b.save.set(saveState{
		dataLen:      b.w.Len(),
		clipStackLen: len(b.clipStack),
		nextClipID:   b.nextClipID,
	})
}

// Restore reverts the builder to the state of the last call to Save.
func (b *Builder) Restore() {
	state := b.save.take().expect("displaylist: no save to restore Builder from")

	b.log.Debug("restoring display list", "discarded_bytes", b.w.Len()-state.dataLen)
	b.clipStack = b.clipStack[:state.clipStackLen]
	b.w.Truncate(state.dataLen)
	b.nextClipID = state.nextClipID
}

// ClearSave discards the pending save, keeping everything pushed since.
func (b *Builder) ClearSave() {
	b.save.take().expect("displaylist: no save to clear in Builder")
}

// PrintDisplayList writes a description of every item pushed so far to w.
func (b *Builder) PrintDisplayList(w io.Writer) error {
	l := &BuiltDisplayList{data: b.w.Bytes(), clock: b.clock}
	return l.Dump(w)
}

func (b *Builder) pushItem(item SpecificItem, info PrimitiveInfo) {
	encodeItem(b.w, item, b.Scope(), info)
}

func (b *Builder) pushItemWithScope(item SpecificItem, info PrimitiveInfo, scope ClipAndScrollInfo) {
	encodeItem(b.w, item, scope, info)
}

func (b *Builder) pushNewEmptyItem(item SpecificItem) {
	encodeItem(b.w, item, b.Scope(), NewPrimitiveInfo(jmath.Rect{}))
}

// pushSequence appends elems as a counted sequence.
func pushSequence[T any](b *Builder, cd *encoding.Codec[T], elems []T) {
	if cd.Check != nil {
		for _, v := range elems {
			if err := cd.Check(v); err != nil {
				panic("displaylist: " + err.Error())
			}
		}
	}
	if n := encoding.EncodeSequence(b.w, cd, elems); n != len(elems) {
		panic(fmt.Sprintf("displaylist: encoded %d of %d elements", n, len(elems)))
	}
}

func (b *Builder) PushRect(info PrimitiveInfo, color gfx.ColorF) {
	b.pushItem(RectangleItem{Color: color}, info)
}

func (b *Builder) PushClearRect(info PrimitiveInfo) {
	b.pushItem(ClearRectangleItem{}, info)
}

func (b *Builder) PushLine(info PrimitiveInfo, wavyLineThickness float32, orientation LineOrientation, color gfx.ColorF, style LineStyle) {
	b.pushItem(LineItem{
		WavyLineThickness: wavyLineThickness,
		Orientation:       orientation,
		Color:             color,
		Style:             style,
	}, info)
}

func (b *Builder) PushImage(info PrimitiveInfo, stretchSize, tileSpacing jmath.Size, rendering ImageRendering, key ImageKey) {
	b.pushItem(ImageItem{
		ImageKey:       key,
		StretchSize:    stretchSize,
		TileSpacing:    tileSpacing,
		ImageRendering: rendering,
	}, info)
}

// PushYuvImage pushes a YUV image. All planes must use the same kind of
// buffer.
func (b *Builder) PushYuvImage(info PrimitiveInfo, data YuvData, colorSpace YuvColorSpace, rendering ImageRendering) {
	b.pushItem(YuvImageItem{
		YuvData:        data,
		ColorSpace:     colorSpace,
		ImageRendering: rendering,
	}, info)
}

// PushText pushes a run of glyphs. Runs longer than MaxTextRunLength are
// split into several text items with identical attributes.
func (b *Builder) PushText(info PrimitiveInfo, glyphs []GlyphInstance, font FontInstanceKey, color gfx.ColorF, opts Option[GlyphOptions]) {
	item := TextItem{
		Color:        color,
		FontKey:      font,
		GlyphOptions: opts,
	}
	for run := range slices.Chunk(glyphs, MaxTextRunLength) {
		b.pushItem(item, info)
		pushSequence(b, glyphCodec, run)
	}
}

func (b *Builder) PushBorder(info PrimitiveInfo, widths jmath.SideOffsets, details NormalBorder) {
	b.pushItem(BorderItem{Widths: widths, Details: details}, info)
}

func (b *Builder) PushBoxShadow(
	info PrimitiveInfo,
	boxBounds jmath.Rect,
	offset jmath.Vector,
	color gfx.ColorF,
	blurRadius float32,
	spreadRadius float32,
	borderRadius jmath.BorderRadius,
	clipMode BoxShadowClipMode,
) {
	b.pushItem(BoxShadowItem{
		BoxBounds:    boxBounds,
		Offset:       offset,
		Color:        color,
		BlurRadius:   blurRadius,
		SpreadRadius: spreadRadius,
		BorderRadius: borderRadius,
		ClipMode:     clipMode,
	}, info)
}

// PushGradient pushes a linear gradient returned by CreateGradient.
func (b *Builder) PushGradient(info PrimitiveInfo, gradient gfx.Gradient, tileSize, tileSpacing jmath.Size) {
	b.pushItem(GradientItem{
		Gradient:    gradient,
		TileSize:    tileSize,
		TileSpacing: tileSpacing,
	}, info)
}

// PushRadialGradient pushes a gradient returned by CreateRadialGradient or
// CreateComplexRadialGradient.
func (b *Builder) PushRadialGradient(info PrimitiveInfo, gradient gfx.RadialGradient, tileSize, tileSpacing jmath.Size) {
	b.pushItem(RadialGradientItem{
		Gradient:    gradient,
		TileSize:    tileSize,
		TileSpacing: tileSpacing,
	}, info)
}

// PushStackingContext opens a stacking context. Every stacking context must
// be closed by a matching PopStackingContext.
func (b *Builder) PushStackingContext(info PrimitiveInfo, sc StackingContext, filters []gfx.FilterOp) {
	b.pushItem(PushStackingContextItem{StackingContext: sc}, info)
	pushSequence(b, filterCodec, filters)
}

func (b *Builder) PopStackingContext() {
	b.pushNewEmptyItem(PopStackingContextItem{})
}

func (b *Builder) generateClipID(id Option[ClipID]) ClipID {
	if id, ok := id.Get(); ok {
		return id
	}
	b.nextClipID++
	return NewClipID(b.nextClipID-1, b.pipeline)
}

// DefineScrollFrame defines a scroll frame in the innermost scroll node and
// returns its id, which is generated if id is unset.
func (b *Builder) DefineScrollFrame(
	id Option[ClipID],
	contentRect jmath.Rect,
	clipRect jmath.Rect,
	complexClips []ComplexClipRegion,
	mask Option[ImageMask],
	sensitivity ScrollSensitivity,
) ClipID {
	parent := b.Scope().ScrollNode
	return b.DefineScrollFrameWithParent(id, parent, contentRect, clipRect, complexClips, mask, sensitivity)
}

func (b *Builder) DefineScrollFrameWithParent(
	id Option[ClipID],
	parent ClipID,
	contentRect jmath.Rect,
	clipRect jmath.Rect,
	complexClips []ComplexClipRegion,
	mask Option[ImageMask],
	sensitivity ScrollSensitivity,
) ClipID {
	cid := b.generateClipID(id)
	item := ScrollFrameItem{
		ID:                cid,
		ImageMask:         mask,
		ScrollSensitivity: sensitivity,
	}
	b.pushItemWithScope(item, WithClipRect(contentRect, clipRect), SimpleClipAndScroll(parent))
	pushSequence(b, complexClipCodec, complexClips)
	return cid
}

// DefineClip defines a clip in the innermost scroll node and returns its
// id, which is generated if id is unset.
func (b *Builder) DefineClip(
	id Option[ClipID],
	clipRect jmath.Rect,
	complexClips []ComplexClipRegion,
	mask Option[ImageMask],
) ClipID {
	parent := b.Scope().ScrollNode
	return b.DefineClipWithParent(id, parent, clipRect, complexClips, mask)
}

func (b *Builder) DefineClipWithParent(
	id Option[ClipID],
	parent ClipID,
	clipRect jmath.Rect,
	complexClips []ComplexClipRegion,
	mask Option[ImageMask],
) ClipID {
	cid := b.generateClipID(id)
	item := ClipItem{
		ID:        cid,
		ImageMask: mask,
	}
	b.pushItemWithScope(item, NewPrimitiveInfo(clipRect), SimpleClipAndScroll(parent))
	pushSequence(b, complexClipCodec, complexClips)
	return cid
}

func (b *Builder) DefineStickyFrame(
	id Option[ClipID],
	frameRect jmath.Rect,
	margins StickyMargins,
	vertical StickyOffsetBounds,
	horizontal StickyOffsetBounds,
	previouslyAppliedOffset jmath.Vector,
) ClipID {
	cid := b.generateClipID(id)
	b.pushItem(StickyFrameItem{
		ID:                      cid,
		Margins:                 margins,
		VerticalOffsetBounds:    vertical,
		HorizontalOffsetBounds:  horizontal,
		PreviouslyAppliedOffset: previouslyAppliedOffset,
	}, NewPrimitiveInfo(frameRect))
	return cid
}

// PushClipID makes id the innermost scope, both for scrolling and
// clipping.
func (b *Builder) PushClipID(id ClipID) {
	b.clipStack = append(b.clipStack, SimpleClipAndScroll(id))
}

func (b *Builder) PushClipAndScrollInfo(info ClipAndScrollInfo) {
	b.clipStack = append(b.clipStack, info)
}

// PopClipID pops the innermost scope. The root scroll node can't be popped,
// and neither can scopes pushed before a pending save.
func (b *Builder) PopClipID() {
	if len(b.clipStack) <= 1 {
		panic("displaylist: cannot pop the root scroll node")
	}
	if state, ok := b.save.Get(); ok && len(b.clipStack)-1 < state.clipStackLen {
		panic("displaylist: cannot pop clips that were pushed before the Builder save")
	}
	b.clipStack = b.clipStack[:len(b.clipStack)-1]
}

func (b *Builder) PushIframe(info PrimitiveInfo, pipeline PipelineID) {
	b.pushItem(IframeItem{PipelineID: pipeline}, info)
}

func (b *Builder) PushShadow(info PrimitiveInfo, shadow Shadow) {
	b.pushItem(PushShadowItem{Shadow: shadow}, info)
}

func (b *Builder) PopAllShadows() {
	b.pushNewEmptyItem(PopAllShadowsItem{})
}

// Finalize consumes the builder. It panics if a save is pending.
func (b *Builder) Finalize() (PipelineID, jmath.Size, *BuiltDisplayList) {
	if b.save.IsSet() {
		panic("displaylist: finalized Builder with a pending save")
	}

	endTime := b.clock.Now()
	data := b.w.Detach()
	b.log.Debug("finalized display list",
		"bytes", len(data),
		"build_time_ns", endTime-b.startTime)

	return b.pipeline, b.contentSize, &BuiltDisplayList{
		data: data,
		descriptor: Descriptor{
			BuilderStartTime:  b.startTime,
			BuilderFinishTime: endTime,
		},
		clock: b.clock,
		log:   b.log,
	}
}
