// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package displaylist

import (
	"encoding/binary"
	"fmt"
	"math"

	"honnef.co/go/displaylist/encoding"
	"honnef.co/go/displaylist/gfx"
)

// Every item kind has a fixed encoded size. Optional fields are written as
// a presence flag followed by a slot that is zeroed when the value is
// absent.
var (
	headerSize   int
	payloadSizes [numItemKinds]int
)

var zeroItems = [numItemKinds]SpecificItem{
	KindRectangle:           RectangleItem{},
	KindClearRectangle:      ClearRectangleItem{},
	KindLine:                LineItem{},
	KindText:                TextItem{},
	KindImage:               ImageItem{},
	KindYuvImage:            YuvImageItem{},
	KindBorder:              BorderItem{},
	KindBoxShadow:           BoxShadowItem{},
	KindGradient:            GradientItem{},
	KindRadialGradient:      RadialGradientItem{},
	KindIframe:              IframeItem{},
	KindClip:                ClipItem{},
	KindScrollFrame:         ScrollFrameItem{},
	KindStickyFrame:         StickyFrameItem{},
	KindPushStackingContext: PushStackingContextItem{},
	KindPopStackingContext:  PopStackingContextItem{},
	KindSetGradientStops:    SetGradientStopsItem{},
	KindPushShadow:          PushShadowItem{},
	KindPopAllShadows:       PopAllShadowsItem{},
}

func init() {
	headerSize = encoding.Measure(func(c *encoding.Cursor) {
		putHeader(c, KindRectangle, ClipAndScrollInfo{}, PrimitiveInfo{})
	})
	for k, item := range zeroItems {
		payloadSizes[k] = encoding.Measure(func(c *encoding.Cursor) { putPayload(c, item) })
	}
}

// encodedItemSize returns the size of an item record, excluding any
// sequences that follow it.
func encodedItemSize(k ItemKind) int {
	return headerSize + payloadSizes[k]
}

func encodeItem(w *encoding.Writer, item SpecificItem, scroll ClipAndScrollInfo, info PrimitiveInfo) {
	k := item.Kind()
	if err := checkItem(item, scroll, info); err != nil {
		panic(fmt.Sprintf("displaylist: cannot push %v: %v", k, err))
	}
	c := w.Reserve(encodedItemSize(k))
	putHeader(&c, k, scroll, info)
	putPayload(&c, item)
	c.Finish()
}

// decodeItem decodes one item record. It reports false if r failed.
func decodeItem(r *encoding.Reader) (DisplayItem, bool) {
	k := ItemKind(r.Enum("item kind", uint32(numItemKinds)))
	di := DisplayItem{
		ClipAndScroll: decodeClipAndScroll(r),
		Info:          decodePrimitiveInfo(r),
	}
	if r.Err() != nil {
		return DisplayItem{}, false
	}
	di.Item = decodePayload(r, k)
	if r.Err() != nil {
		return DisplayItem{}, false
	}
	return di, true
}

func putHeader(c *encoding.Cursor, k ItemKind, scroll ClipAndScrollInfo, info PrimitiveInfo) {
	c.PutU32(uint32(k))
	putClipID(c, scroll.ScrollNode)
	putOption(c, scroll.ClipNode, putClipID)
	c.PutRect(info.Rect)
	c.PutRect(info.LocalClip.Rect)
	c.PutBool(info.LocalClip.Rounded)
	c.PutBorderRadius(info.LocalClip.Radii)
	c.PutU32(uint32(info.LocalClip.Mode))
	c.PutBool(info.IsBackfaceVisible)
}

func decodeClipAndScroll(r *encoding.Reader) ClipAndScrollInfo {
	return ClipAndScrollInfo{
		ScrollNode: decodeClipID(r),
		ClipNode:   decodeOption(r, decodeClipID),
	}
}

func decodePrimitiveInfo(r *encoding.Reader) PrimitiveInfo {
	return PrimitiveInfo{
		Rect: r.Rect(),
		LocalClip: LocalClip{
			Rect:    r.Rect(),
			Rounded: r.Bool(),
			Radii:   r.BorderRadius(),
			Mode:    ClipMode(r.Enum("clip mode", uint32(numClipModes))),
		},
		IsBackfaceVisible: r.Bool(),
	}
}

// enumCheck records the first enum field that is out of range.
type enumCheck struct {
	err error
}

func checkEnum[E ~uint32](ec *enumCheck, what string, v, n E) {
	if ec.err == nil && v >= n {
		ec.err = fmt.Errorf("invalid %s: %d", what, v)
	}
}

func (ec *enumCheck) clipID(id ClipID) {
	checkEnum(ec, "clip id kind", id.Kind, numClipIDKinds)
}

// checkItem rejects enum values that the decoder would treat as malformed.
func checkItem(item SpecificItem, scroll ClipAndScrollInfo, info PrimitiveInfo) error {
	var ec enumCheck
	ec.clipID(scroll.ScrollNode)
	if id, ok := scroll.ClipNode.Get(); ok {
		ec.clipID(id)
	}
	checkEnum(&ec, "clip mode", info.LocalClip.Mode, numClipModes)

	switch item := item.(type) {
	case LineItem:
		checkEnum(&ec, "line orientation", item.Orientation, numLineOrientations)
		checkEnum(&ec, "line style", item.Style, numLineStyles)
	case TextItem:
		if o, ok := item.GlyphOptions.Get(); ok {
			checkEnum(&ec, "render mode", o.RenderMode, numRenderModes)
		}
	case ImageItem:
		checkEnum(&ec, "image rendering", item.ImageRendering, numImageRenderings)
	case YuvImageItem:
		checkEnum(&ec, "yuv format", item.YuvData.Format, numYuvFormats)
		checkEnum(&ec, "yuv color space", item.ColorSpace, numYuvColorSpaces)
		checkEnum(&ec, "image rendering", item.ImageRendering, numImageRenderings)
	case BorderItem:
		d := item.Details
		for _, side := range [...]BorderSide{d.Left, d.Right, d.Top, d.Bottom} {
			checkEnum(&ec, "border style", side.Style, numBorderStyles)
		}
	case BoxShadowItem:
		checkEnum(&ec, "box shadow clip mode", item.ClipMode, numBoxShadowClipModes)
	case GradientItem:
		checkEnum(&ec, "extend mode", item.Gradient.ExtendMode, gfx.ExtendRepeat+1)
	case RadialGradientItem:
		checkEnum(&ec, "extend mode", item.Gradient.ExtendMode, gfx.ExtendRepeat+1)
	case ClipItem:
		ec.clipID(item.ID)
	case ScrollFrameItem:
		ec.clipID(item.ID)
		checkEnum(&ec, "scroll sensitivity", item.ScrollSensitivity, numScrollSensitivities)
	case StickyFrameItem:
		ec.clipID(item.ID)
	case PushStackingContextItem:
		sc := item.StackingContext
		checkEnum(&ec, "scroll policy", sc.ScrollPolicy, numScrollPolicies)
		checkEnum(&ec, "transform style", sc.TransformStyle, numTransformStyles)
		checkEnum(&ec, "mix blend mode", sc.MixBlendMode, gfx.MixLuminosity+1)
	}
	return ec.err
}

func putPayload(c *encoding.Cursor, item SpecificItem) {
	switch item := item.(type) {
	case RectangleItem:
		putColor(c, item.Color)
	case ClearRectangleItem, PopStackingContextItem, SetGradientStopsItem, PopAllShadowsItem:
	case LineItem:
		c.PutF32(item.WavyLineThickness)
		c.PutU32(uint32(item.Orientation))
		putColor(c, item.Color)
		c.PutU32(uint32(item.Style))
	case TextItem:
		putColor(c, item.Color)
		putKey(c, item.FontKey.Namespace, item.FontKey.Key)
		putOption(c, item.GlyphOptions, func(c *encoding.Cursor, o GlyphOptions) {
			c.PutU32(uint32(o.RenderMode))
			c.PutU32(o.Flags)
		})
	case ImageItem:
		putKey(c, item.ImageKey.Namespace, item.ImageKey.Key)
		c.PutSize(item.StretchSize)
		c.PutSize(item.TileSpacing)
		c.PutU32(uint32(item.ImageRendering))
	case YuvImageItem:
		c.PutU32(uint32(item.YuvData.Format))
		for _, k := range item.YuvData.Planes {
			putKey(c, k.Namespace, k.Key)
		}
		c.PutU32(uint32(item.ColorSpace))
		c.PutU32(uint32(item.ImageRendering))
	case BorderItem:
		c.PutSideOffsets(item.Widths)
		for _, side := range [...]BorderSide{item.Details.Left, item.Details.Right, item.Details.Top, item.Details.Bottom} {
			putColor(c, side.Color)
			c.PutU32(uint32(side.Style))
		}
		c.PutBorderRadius(item.Details.Radius)
		c.PutBool(item.Details.DoAA)
	case BoxShadowItem:
		c.PutRect(item.BoxBounds)
		c.PutVector(item.Offset)
		putColor(c, item.Color)
		c.PutF32(item.BlurRadius)
		c.PutF32(item.SpreadRadius)
		c.PutBorderRadius(item.BorderRadius)
		c.PutU32(uint32(item.ClipMode))
	case GradientItem:
		c.PutPoint(item.Gradient.StartPoint)
		c.PutPoint(item.Gradient.EndPoint)
		c.PutU32(uint32(item.Gradient.ExtendMode))
		c.PutSize(item.TileSize)
		c.PutSize(item.TileSpacing)
	case RadialGradientItem:
		g := item.Gradient
		c.PutPoint(g.StartCenter)
		c.PutF32(g.StartRadius)
		c.PutPoint(g.EndCenter)
		c.PutF32(g.EndRadius)
		c.PutF32(g.RatioXY)
		c.PutU32(uint32(g.ExtendMode))
		c.PutSize(item.TileSize)
		c.PutSize(item.TileSpacing)
	case IframeItem:
		putKey(c, item.PipelineID.Namespace, item.PipelineID.Index)
	case ClipItem:
		putClipID(c, item.ID)
		putOption(c, item.ImageMask, putImageMask)
	case ScrollFrameItem:
		putClipID(c, item.ID)
		putOption(c, item.ImageMask, putImageMask)
		c.PutU32(uint32(item.ScrollSensitivity))
	case StickyFrameItem:
		putClipID(c, item.ID)
		for _, m := range [...]Option[float32]{item.Margins.Top, item.Margins.Right, item.Margins.Bottom, item.Margins.Left} {
			putOption(c, m, (*encoding.Cursor).PutF32)
		}
		c.PutF32(item.VerticalOffsetBounds.Min)
		c.PutF32(item.VerticalOffsetBounds.Max)
		c.PutF32(item.HorizontalOffsetBounds.Min)
		c.PutF32(item.HorizontalOffsetBounds.Max)
		c.PutVector(item.PreviouslyAppliedOffset)
	case PushStackingContextItem:
		sc := item.StackingContext
		c.PutU32(uint32(sc.ScrollPolicy))
		putOption(c, sc.Transform, func(c *encoding.Cursor, b PropertyBinding) {
			c.PutU64(b.Key)
			c.PutTransform(b.Value)
		})
		c.PutU32(uint32(sc.TransformStyle))
		putOption(c, sc.Perspective, (*encoding.Cursor).PutTransform)
		c.PutU32(uint32(sc.MixBlendMode))
	case PushShadowItem:
		c.PutVector(item.Shadow.Offset)
		putColor(c, item.Shadow.Color)
		c.PutF32(item.Shadow.BlurRadius)
	default:
		panic(fmt.Sprintf("unhandled display item type %T", item))
	}
}

func decodePayload(r *encoding.Reader, k ItemKind) SpecificItem {
	switch k {
	case KindRectangle:
		return RectangleItem{Color: decodeColor(r)}
	case KindClearRectangle:
		return ClearRectangleItem{}
	case KindLine:
		return LineItem{
			WavyLineThickness: r.F32(),
			Orientation:       LineOrientation(r.Enum("line orientation", uint32(numLineOrientations))),
			Color:             decodeColor(r),
			Style:             LineStyle(r.Enum("line style", uint32(numLineStyles))),
		}
	case KindText:
		return TextItem{
			Color:   decodeColor(r),
			FontKey: FontInstanceKey{Namespace: r.U32(), Key: r.U32()},
			GlyphOptions: decodeOption(r, func(r *encoding.Reader) GlyphOptions {
				return GlyphOptions{
					RenderMode: FontRenderMode(r.Enum("render mode", uint32(numRenderModes))),
					Flags:      r.U32(),
				}
			}),
		}
	case KindImage:
		return ImageItem{
			ImageKey:       decodeImageKey(r),
			StretchSize:    r.Size(),
			TileSpacing:    r.Size(),
			ImageRendering: ImageRendering(r.Enum("image rendering", uint32(numImageRenderings))),
		}
	case KindYuvImage:
		var item YuvImageItem
		item.YuvData.Format = YuvFormat(r.Enum("yuv format", uint32(numYuvFormats)))
		for i := range item.YuvData.Planes {
			item.YuvData.Planes[i] = decodeImageKey(r)
		}
		item.ColorSpace = YuvColorSpace(r.Enum("yuv color space", uint32(numYuvColorSpaces)))
		item.ImageRendering = ImageRendering(r.Enum("image rendering", uint32(numImageRenderings)))
		return item
	case KindBorder:
		var item BorderItem
		item.Widths = r.SideOffsets()
		for _, side := range [...]*BorderSide{&item.Details.Left, &item.Details.Right, &item.Details.Top, &item.Details.Bottom} {
			side.Color = decodeColor(r)
			side.Style = BorderStyle(r.Enum("border style", uint32(numBorderStyles)))
		}
		item.Details.Radius = r.BorderRadius()
		item.Details.DoAA = r.Bool()
		return item
	case KindBoxShadow:
		return BoxShadowItem{
			BoxBounds:    r.Rect(),
			Offset:       r.Vector(),
			Color:        decodeColor(r),
			BlurRadius:   r.F32(),
			SpreadRadius: r.F32(),
			BorderRadius: r.BorderRadius(),
			ClipMode:     BoxShadowClipMode(r.Enum("box shadow clip mode", uint32(numBoxShadowClipModes))),
		}
	case KindGradient:
		return GradientItem{
			Gradient: gfx.Gradient{
				StartPoint: r.Point(),
				EndPoint:   r.Point(),
				ExtendMode: decodeExtendMode(r),
			},
			TileSize:    r.Size(),
			TileSpacing: r.Size(),
		}
	case KindRadialGradient:
		return RadialGradientItem{
			Gradient: gfx.RadialGradient{
				StartCenter: r.Point(),
				StartRadius: r.F32(),
				EndCenter:   r.Point(),
				EndRadius:   r.F32(),
				RatioXY:     r.F32(),
				ExtendMode:  decodeExtendMode(r),
			},
			TileSize:    r.Size(),
			TileSpacing: r.Size(),
		}
	case KindIframe:
		return IframeItem{PipelineID: PipelineID{Namespace: r.U32(), Index: r.U32()}}
	case KindClip:
		return ClipItem{
			ID:        decodeClipID(r),
			ImageMask: decodeOption(r, decodeImageMask),
		}
	case KindScrollFrame:
		return ScrollFrameItem{
			ID:                decodeClipID(r),
			ImageMask:         decodeOption(r, decodeImageMask),
			ScrollSensitivity: ScrollSensitivity(r.Enum("scroll sensitivity", uint32(numScrollSensitivities))),
		}
	case KindStickyFrame:
		var item StickyFrameItem
		item.ID = decodeClipID(r)
		for _, m := range [...]*Option[float32]{&item.Margins.Top, &item.Margins.Right, &item.Margins.Bottom, &item.Margins.Left} {
			*m = decodeOption(r, (*encoding.Reader).F32)
		}
		item.VerticalOffsetBounds = StickyOffsetBounds{Min: r.F32(), Max: r.F32()}
		item.HorizontalOffsetBounds = StickyOffsetBounds{Min: r.F32(), Max: r.F32()}
		item.PreviouslyAppliedOffset = r.Vector()
		return item
	case KindPushStackingContext:
		return PushStackingContextItem{StackingContext: StackingContext{
			ScrollPolicy: ScrollPolicy(r.Enum("scroll policy", uint32(numScrollPolicies))),
			Transform: decodeOption(r, func(r *encoding.Reader) PropertyBinding {
				return PropertyBinding{Key: r.U64(), Value: r.Transform()}
			}),
			TransformStyle: TransformStyle(r.Enum("transform style", uint32(numTransformStyles))),
			Perspective:    decodeOption(r, (*encoding.Reader).Transform),
			MixBlendMode:   decodeMixBlendMode(r),
		}}
	case KindPopStackingContext:
		return PopStackingContextItem{}
	case KindSetGradientStops:
		return SetGradientStopsItem{}
	case KindPushShadow:
		return PushShadowItem{Shadow: Shadow{
			Offset:     r.Vector(),
			Color:      decodeColor(r),
			BlurRadius: r.F32(),
		}}
	case KindPopAllShadows:
		return PopAllShadowsItem{}
	default:
		// Enum already rejected k.
		return nil
	}
}

func putOption[T any](c *encoding.Cursor, opt Option[T], put func(*encoding.Cursor, T)) {
	c.PutBool(opt.isSet)
	put(c, opt.value)
}

func decodeOption[T any](r *encoding.Reader, decode func(*encoding.Reader) T) Option[T] {
	set := r.Bool()
	v := decode(r)
	if !set {
		return None[T]()
	}
	return Some(v)
}

func putClipID(c *encoding.Cursor, id ClipID) {
	c.PutU32(uint32(id.Kind))
	c.PutU64(id.ID)
	c.PutU32(id.Pipeline.Namespace)
	c.PutU32(id.Pipeline.Index)
}

func decodeClipID(r *encoding.Reader) ClipID {
	return ClipID{
		Kind:     ClipIDKind(r.Enum("clip id kind", uint32(numClipIDKinds))),
		ID:       r.U64(),
		Pipeline: PipelineID{Namespace: r.U32(), Index: r.U32()},
	}
}

func putKey(c *encoding.Cursor, namespace, key uint32) {
	c.PutU32(namespace)
	c.PutU32(key)
}

func decodeImageKey(r *encoding.Reader) ImageKey {
	return ImageKey{Namespace: r.U32(), Key: r.U32()}
}

func putImageMask(c *encoding.Cursor, m ImageMask) {
	putKey(c, m.Image.Namespace, m.Image.Key)
	c.PutRect(m.Rect)
	c.PutBool(m.Repeat)
}

func decodeImageMask(r *encoding.Reader) ImageMask {
	return ImageMask{
		Image:  decodeImageKey(r),
		Rect:   r.Rect(),
		Repeat: r.Bool(),
	}
}

func putColor(c *encoding.Cursor, col gfx.ColorF) {
	c.PutF32(col.R)
	c.PutF32(col.G)
	c.PutF32(col.B)
	c.PutF32(col.A)
}

func decodeColor(r *encoding.Reader) gfx.ColorF {
	return gfx.ColorF{R: r.F32(), G: r.F32(), B: r.F32(), A: r.F32()}
}

func decodeExtendMode(r *encoding.Reader) gfx.ExtendMode {
	return gfx.ExtendMode(r.Enum("extend mode", uint32(gfx.ExtendRepeat)+1))
}

func decodeMixBlendMode(r *encoding.Reader) gfx.MixBlendMode {
	return gfx.MixBlendMode(r.Enum("mix blend mode", uint32(gfx.MixLuminosity)+1))
}

const (
	glyphSize             = 4 + encoding.SizePoint
	gradientStopSize      = 4 + 16
	complexClipRegionSize = encoding.SizeRect + encoding.SizeBorderRadius + 4
	// Every filter carries at least its kind and amount.
	minFilterOpSize = 8
)

var glyphCodec = &encoding.Codec[GlyphInstance]{
	Size: glyphSize,
	POD:  true,
	Put: func(c *encoding.Cursor, g GlyphInstance) {
		c.PutU32(g.Index)
		c.PutPoint(g.Point)
	},
	Decode: func(r *encoding.Reader) GlyphInstance {
		return GlyphInstance{Index: r.U32(), Point: r.Point()}
	},
}

var gradientStopCodec = &encoding.Codec[gfx.GradientStop]{
	Size: gradientStopSize,
	POD:  true,
	Put: func(c *encoding.Cursor, s gfx.GradientStop) {
		c.PutF32(s.Offset)
		putColor(c, s.Color)
	},
	Decode: func(r *encoding.Reader) gfx.GradientStop {
		return gfx.GradientStop{Offset: r.F32(), Color: decodeColor(r)}
	},
}

var complexClipCodec = &encoding.Codec[ComplexClipRegion]{
	Size: complexClipRegionSize,
	POD:  true,
	Check: func(cc ComplexClipRegion) error {
		var ec enumCheck
		checkEnum(&ec, "clip mode", cc.Mode, numClipModes)
		return ec.err
	},
	Put: func(c *encoding.Cursor, cc ComplexClipRegion) {
		c.PutRect(cc.Rect)
		c.PutBorderRadius(cc.Radii)
		c.PutU32(uint32(cc.Mode))
	},
	Decode: func(r *encoding.Reader) ComplexClipRegion {
		return ComplexClipRegion{
			Rect:  r.Rect(),
			Radii: r.BorderRadius(),
			Mode:  ClipMode(r.Enum("clip mode", uint32(numClipModes))),
		}
	},
}

// Filters differ in size, so they take the scratch path.
var filterCodec = &encoding.Codec[gfx.FilterOp]{
	MinSize: minFilterOpSize,
	Append:  appendFilterOp,
	Decode:  decodeFilterOp,
	Check: func(f gfx.FilterOp) error {
		var ec enumCheck
		checkEnum(&ec, "filter kind", f.Kind, gfx.FilterDropShadow+1)
		return ec.err
	},
}

func appendFilterOp(dst []byte, f gfx.FilterOp) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Kind))
	dst = appendF32(dst, f.Amount)
	if f.Kind == gfx.FilterDropShadow {
		dst = appendF32(dst, f.Offset.X)
		dst = appendF32(dst, f.Offset.Y)
		dst = appendF32(dst, f.Color.R)
		dst = appendF32(dst, f.Color.G)
		dst = appendF32(dst, f.Color.B)
		dst = appendF32(dst, f.Color.A)
	}
	return dst
}

func decodeFilterOp(r *encoding.Reader) gfx.FilterOp {
	f := gfx.FilterOp{Kind: gfx.FilterKind(r.Enum("filter kind", uint32(gfx.FilterDropShadow)+1))}
	f.Amount = r.F32()
	if f.Kind == gfx.FilterDropShadow {
		f.Offset = r.Vector()
		f.Color = decodeColor(r)
	}
	return f
}

func appendF32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}
