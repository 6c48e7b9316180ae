// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package displaylist

import (
	"fmt"
	"structs"

	"golang.org/x/image/math/fixed"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
)

// MaxTextRunLength is the largest number of glyphs a single text item
// carries. Longer runs are split into several items.
const MaxTextRunLength = 2038

type ItemKind uint32

const (
	KindRectangle ItemKind = iota
	KindClearRectangle
	KindLine
	KindText
	KindImage
	KindYuvImage
	KindBorder
	KindBoxShadow
	KindGradient
	KindRadialGradient
	KindIframe
	KindClip
	KindScrollFrame
	KindStickyFrame
	KindPushStackingContext
	KindPopStackingContext
	// KindSetGradientStops carries the stops of the gradient item that
	// follows it. Iterators consume it without exposing it.
	KindSetGradientStops
	KindPushShadow
	KindPopAllShadows

	numItemKinds
)

var kindNames = [...]string{
	"Rectangle", "ClearRectangle", "Line", "Text", "Image", "YuvImage",
	"Border", "BoxShadow", "Gradient", "RadialGradient", "Iframe", "Clip",
	"ScrollFrame", "StickyFrame", "PushStackingContext", "PopStackingContext",
	"SetGradientStops", "PushShadow", "PopAllShadows",
}

func (k ItemKind) String() string {
	if k >= numItemKinds {
		return fmt.Sprintf("ItemKind(%d)", uint32(k))
	}
	return kindNames[k]
}

// SpecificItem is the kind-specific part of a display item. It is
// implemented by the *Item types of this package.
type SpecificItem interface {
	Kind() ItemKind
}

// DisplayItem is one record of a display list.
type DisplayItem struct {
	Item          SpecificItem
	ClipAndScroll ClipAndScrollInfo
	Info          PrimitiveInfo
}

type PipelineID struct {
	Namespace uint32
	Index     uint32
}

type ClipIDKind uint32

const (
	ClipIDClip ClipIDKind = iota
	ClipIDExternal
	ClipIDDynamicallyAdded

	numClipIDKinds
)

// ClipID names a clip or scroll node of a pipeline.
type ClipID struct {
	Kind     ClipIDKind
	ID       uint64
	Pipeline PipelineID
}

func NewClipID(id uint64, pipeline PipelineID) ClipID {
	return ClipID{Kind: ClipIDClip, ID: id, Pipeline: pipeline}
}

// RootScrollNode returns the id of the scroll node every item of pipeline
// is ultimately positioned in.
func RootScrollNode(pipeline PipelineID) ClipID {
	return NewClipID(0, pipeline)
}

func (id ClipID) IsRootScrollNode() bool {
	return id.Kind == ClipIDClip && id.ID == 0
}

func (id ClipID) String() string {
	switch id.Kind {
	case ClipIDClip:
		return fmt.Sprintf("Clip(%d, %d:%d)", id.ID, id.Pipeline.Namespace, id.Pipeline.Index)
	case ClipIDExternal:
		return fmt.Sprintf("External(%d, %d:%d)", id.ID, id.Pipeline.Namespace, id.Pipeline.Index)
	default:
		return fmt.Sprintf("Dynamic(%d, %d:%d)", id.ID, id.Pipeline.Namespace, id.Pipeline.Index)
	}
}

// ClipAndScrollInfo is the scope an item was pushed in: the scroll node
// that positions it and, optionally, a clip node that differs from it.
type ClipAndScrollInfo struct {
	ScrollNode ClipID
	ClipNode   Option[ClipID]
}

func SimpleClipAndScroll(id ClipID) ClipAndScrollInfo {
	return ClipAndScrollInfo{ScrollNode: id}
}

func NewClipAndScrollInfo(scroll, clip ClipID) ClipAndScrollInfo {
	return ClipAndScrollInfo{ScrollNode: scroll, ClipNode: Some(clip)}
}

// ClipNodeID returns the clip node, which defaults to the scroll node.
func (info ClipAndScrollInfo) ClipNodeID() ClipID {
	return info.ClipNode.UnwrapOr(info.ScrollNode)
}

type ClipMode uint32

const (
	ClipModeClip ClipMode = iota
	ClipModeClipOut

	numClipModes
)

// ComplexClipRegion is a rounded rectangle used to clip content.
type ComplexClipRegion struct {
	_ structs.HostLayout

	Rect  jmath.Rect
	Radii jmath.BorderRadius
	Mode  ClipMode
}

// LocalClip is the clip applied to a single item in its own coordinate
// space. Radii and Mode are only meaningful if Rounded is set.
type LocalClip struct {
	Rect    jmath.Rect
	Rounded bool
	Radii   jmath.BorderRadius
	Mode    ClipMode
}

func RectClip(r jmath.Rect) LocalClip {
	return LocalClip{Rect: r}
}

func RoundedRectClip(r jmath.Rect, region ComplexClipRegion) LocalClip {
	return LocalClip{Rect: r, Rounded: true, Radii: region.Radii, Mode: region.Mode}
}

func (lc LocalClip) Translate(v jmath.Vector) LocalClip {
	lc.Rect = lc.Rect.Translate(v)
	return lc
}

// PrimitiveInfo places an item in layout space.
type PrimitiveInfo struct {
	Rect              jmath.Rect
	LocalClip         LocalClip
	IsBackfaceVisible bool
}

// NewPrimitiveInfo returns a visible item placement clipped to its own
// bounds.
func NewPrimitiveInfo(r jmath.Rect) PrimitiveInfo {
	return WithClipRect(r, r)
}

func WithClipRect(r, clip jmath.Rect) PrimitiveInfo {
	return PrimitiveInfo{
		Rect:              r,
		LocalClip:         RectClip(clip),
		IsBackfaceVisible: true,
	}
}

// Translate offsets the item and its clip by v.
func (info PrimitiveInfo) Translate(v jmath.Vector) PrimitiveInfo {
	info.Rect = info.Rect.Translate(v)
	info.LocalClip = info.LocalClip.Translate(v)
	return info
}

type GlyphInstance struct {
	_ structs.HostLayout

	Index uint32
	Point jmath.Point
}

// GlyphAt returns a glyph positioned at a 26.6 fixed point location, as
// produced by font shapers.
func GlyphAt(index uint32, p fixed.Point26_6) GlyphInstance {
	return GlyphInstance{
		Index: index,
		Point: jmath.Pt(float32(p.X)/64, float32(p.Y)/64),
	}
}

type ImageKey struct {
	Namespace uint32
	Key       uint32
}

type FontInstanceKey struct {
	Namespace uint32
	Key       uint32
}

type ImageRendering uint32

const (
	ImageRenderingAuto ImageRendering = iota
	ImageRenderingCrispEdges
	ImageRenderingPixelated

	numImageRenderings
)

type LineOrientation uint32

const (
	LineVertical LineOrientation = iota
	LineHorizontal

	numLineOrientations
)

type LineStyle uint32

const (
	LineSolid LineStyle = iota
	LineDotted
	LineDashed
	LineWavy

	numLineStyles
)

type FontRenderMode uint32

const (
	RenderModeMono FontRenderMode = iota
	RenderModeAlpha
	RenderModeSubpixel

	numRenderModes
)

type GlyphOptions struct {
	RenderMode FontRenderMode
	Flags      uint32
}

type YuvFormat uint32

const (
	// NV12 uses two planes: Y and interleaved CbCr.
	YuvNV12 YuvFormat = iota
	YuvPlanar
	YuvInterleaved

	numYuvFormats
)

// PlaneCount returns how many of YuvData.Planes are used by the format.
func (f YuvFormat) PlaneCount() int {
	switch f {
	case YuvNV12:
		return 2
	case YuvPlanar:
		return 3
	default:
		return 1
	}
}

type YuvData struct {
	Format YuvFormat
	Planes [3]ImageKey
}

type YuvColorSpace uint32

const (
	YuvRec601 YuvColorSpace = iota
	YuvRec709

	numYuvColorSpaces
)

type BorderStyle uint32

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDouble
	BorderDotted
	BorderDashed
	BorderHidden
	BorderGroove
	BorderRidge
	BorderInset
	BorderOutset

	numBorderStyles
)

type BorderSide struct {
	Color gfx.ColorF
	Style BorderStyle
}

type NormalBorder struct {
	Left, Right, Top, Bottom BorderSide
	Radius                   jmath.BorderRadius
	DoAA                     bool
}

type BoxShadowClipMode uint32

const (
	BoxShadowOutset BoxShadowClipMode = iota
	BoxShadowInset

	numBoxShadowClipModes
)

type ImageMask struct {
	Image  ImageKey
	Rect   jmath.Rect
	Repeat bool
}

type ScrollSensitivity uint32

const (
	ScriptAndInputEvents ScrollSensitivity = iota
	ScriptOnly

	numScrollSensitivities
)

// StickyOffsetBounds limits how far a sticky frame may move along one axis.
type StickyOffsetBounds struct {
	Min, Max float32
}

// StickyMargins are the distances from the viewport edges at which a sticky
// frame starts sticking. Unset edges don't stick.
type StickyMargins struct {
	Top, Right, Bottom, Left Option[float32]
}

type ScrollPolicy uint32

const (
	ScrollPolicyScrollable ScrollPolicy = iota
	ScrollPolicyFixed

	numScrollPolicies
)

type TransformStyle uint32

const (
	TransformStyleFlat TransformStyle = iota
	TransformStylePreserve3D

	numTransformStyles
)

// PropertyBinding is either a fixed transform or a key whose value is
// supplied later, during animation.
type PropertyBinding struct {
	// Key is non-zero for bound properties.
	Key   uint64
	Value jmath.Transform
}

type StackingContext struct {
	ScrollPolicy   ScrollPolicy
	Transform      Option[PropertyBinding]
	TransformStyle TransformStyle
	Perspective    Option[jmath.Transform]
	MixBlendMode   gfx.MixBlendMode
}

type Shadow struct {
	Offset     jmath.Vector
	Color      gfx.ColorF
	BlurRadius float32
}

type RectangleItem struct {
	Color gfx.ColorF
}

type ClearRectangleItem struct{}

type LineItem struct {
	WavyLineThickness float32
	Orientation       LineOrientation
	Color             gfx.ColorF
	Style             LineStyle
}

// TextItem's glyphs follow it in a counted sequence.
type TextItem struct {
	Color        gfx.ColorF
	FontKey      FontInstanceKey
	GlyphOptions Option[GlyphOptions]
}

type ImageItem struct {
	ImageKey       ImageKey
	StretchSize    jmath.Size
	TileSpacing    jmath.Size
	ImageRendering ImageRendering
}

type YuvImageItem struct {
	YuvData        YuvData
	ColorSpace     YuvColorSpace
	ImageRendering ImageRendering
}

type BorderItem struct {
	Widths  jmath.SideOffsets
	Details NormalBorder
}

type BoxShadowItem struct {
	BoxBounds    jmath.Rect
	Offset       jmath.Vector
	Color        gfx.ColorF
	BlurRadius   float32
	SpreadRadius float32
	BorderRadius jmath.BorderRadius
	ClipMode     BoxShadowClipMode
}

type GradientItem struct {
	Gradient    gfx.Gradient
	TileSize    jmath.Size
	TileSpacing jmath.Size
}

type RadialGradientItem struct {
	Gradient    gfx.RadialGradient
	TileSize    jmath.Size
	TileSpacing jmath.Size
}

type IframeItem struct {
	PipelineID PipelineID
}

// ClipItem defines a clip node. Its complex clip regions follow it in a
// counted sequence.
type ClipItem struct {
	ID        ClipID
	ImageMask Option[ImageMask]
}

// ScrollFrameItem defines a scroll node. Its complex clip regions follow it
// in a counted sequence.
type ScrollFrameItem struct {
	ID                ClipID
	ImageMask         Option[ImageMask]
	ScrollSensitivity ScrollSensitivity
}

type StickyFrameItem struct {
	ID                      ClipID
	Margins                 StickyMargins
	VerticalOffsetBounds    StickyOffsetBounds
	HorizontalOffsetBounds  StickyOffsetBounds
	PreviouslyAppliedOffset jmath.Vector
}

// PushStackingContextItem's filters follow it in a counted sequence.
type PushStackingContextItem struct {
	StackingContext StackingContext
}

type PopStackingContextItem struct{}

type SetGradientStopsItem struct{}

type PushShadowItem struct {
	Shadow Shadow
}

type PopAllShadowsItem struct{}

func (RectangleItem) Kind() ItemKind           { return KindRectangle }
func (ClearRectangleItem) Kind() ItemKind      { return KindClearRectangle }
func (LineItem) Kind() ItemKind                { return KindLine }
func (TextItem) Kind() ItemKind                { return KindText }
func (ImageItem) Kind() ItemKind               { return KindImage }
func (YuvImageItem) Kind() ItemKind            { return KindYuvImage }
func (BorderItem) Kind() ItemKind              { return KindBorder }
func (BoxShadowItem) Kind() ItemKind           { return KindBoxShadow }
func (GradientItem) Kind() ItemKind            { return KindGradient }
func (RadialGradientItem) Kind() ItemKind      { return KindRadialGradient }
func (IframeItem) Kind() ItemKind              { return KindIframe }
func (ClipItem) Kind() ItemKind                { return KindClip }
func (ScrollFrameItem) Kind() ItemKind         { return KindScrollFrame }
func (StickyFrameItem) Kind() ItemKind         { return KindStickyFrame }
func (PushStackingContextItem) Kind() ItemKind { return KindPushStackingContext }
func (PopStackingContextItem) Kind() ItemKind  { return KindPopStackingContext }
func (SetGradientStopsItem) Kind() ItemKind    { return KindSetGradientStops }
func (PushShadowItem) Kind() ItemKind          { return KindPushShadow }
func (PopAllShadowsItem) Kind() ItemKind       { return KindPopAllShadows }
