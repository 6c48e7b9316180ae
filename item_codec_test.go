package displaylist

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/displaylist/encoding"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
)

func TestPODCodecSizes(t *testing.T) {
	// Sequences of these types may be copied from memory verbatim.
	assert.EqualValues(t, glyphCodec.Size, unsafe.Sizeof(GlyphInstance{}))
	assert.EqualValues(t, gradientStopCodec.Size, unsafe.Sizeof(gfx.GradientStop{}))
	assert.EqualValues(t, complexClipCodec.Size, unsafe.Sizeof(ComplexClipRegion{}))
}

func TestItemSizeIgnoresOptionalFields(t *testing.T) {
	info := NewPrimitiveInfo(jmath.R(0, 0, 1, 1))
	scope := SimpleClipAndScroll(RootScrollNode(testPipeline))
	withClip := NewClipAndScrollInfo(RootScrollNode(testPipeline), NewClipID(3, testPipeline))

	pairs := [][2]SpecificItem{
		{TextItem{}, TextItem{GlyphOptions: Some(GlyphOptions{Flags: 1})}},
		{ClipItem{}, ClipItem{ImageMask: Some(ImageMask{Repeat: true})}},
		{StickyFrameItem{}, StickyFrameItem{Margins: StickyMargins{Top: Some[float32](1)}}},
		{PushStackingContextItem{}, PushStackingContextItem{StackingContext: StackingContext{
			Transform:   Some(PropertyBinding{Value: jmath.Identity}),
			Perspective: Some(jmath.Identity),
		}}},
	}
	for _, p := range pairs {
		w := encoding.NewWriter(0)
		encodeItem(w, p[0], scope, info)
		require.Equal(t, encodedItemSize(p[0].Kind()), w.Len())
		encodeItem(w, p[1], withClip, info)
		require.Equal(t, 2*encodedItemSize(p[0].Kind()), w.Len(), "%T", p[1])
	}
}

func TestDecodeItem(t *testing.T) {
	info := testInfo()
	scope := NewClipAndScrollInfo(NewClipID(1, testPipeline), ClipID{Kind: ClipIDDynamicallyAdded, ID: 8})
	item := BoxShadowItem{Color: gfx.White, ClipMode: BoxShadowInset, BlurRadius: 2}

	w := encoding.NewWriter(0)
	encodeItem(w, item, scope, info)
	r := encoding.NewReader(w.Bytes())
	di, ok := decodeItem(r)
	require.True(t, ok)
	require.Equal(t, DisplayItem{Item: item, ClipAndScroll: scope, Info: info}, di)
	require.Zero(t, r.Remaining())
}

func TestFilterEncoding(t *testing.T) {
	w := encoding.NewWriter(0)
	encoding.EncodeValue(w, filterCodec, gfx.Blur(3))
	require.Equal(t, minFilterOpSize, w.Len())
	encoding.EncodeValue(w, filterCodec, gfx.DropShadow(jmath.Vec(1, 2), 3, gfx.Black))
	require.Equal(t, 2*minFilterOpSize+8+16, w.Len())

	r := encoding.NewReader(w.Bytes())
	require.Equal(t, gfx.Blur(3), decodeFilterOp(r))
	require.Equal(t, gfx.DropShadow(jmath.Vec(1, 2), 3, gfx.Black), decodeFilterOp(r))
	require.NoError(t, r.Err())

	bad := []byte{0xff, 0, 0, 0, 0, 0, 0, 0}
	r = encoding.NewReader(bad)
	decodeFilterOp(r)
	require.ErrorIs(t, r.Err(), encoding.ErrBadDiscriminant)
}

func TestItemKindString(t *testing.T) {
	require.Equal(t, "PushStackingContext", KindPushStackingContext.String())
	require.Equal(t, "PopAllShadows", KindPopAllShadows.String())
	require.Equal(t, "ItemKind(99)", ItemKind(99).String())
	for k := range numItemKinds {
		require.Equal(t, k, zeroItems[k].Kind())
	}
}

func TestYuvPlaneCount(t *testing.T) {
	require.Equal(t, 2, YuvNV12.PlaneCount())
	require.Equal(t, 3, YuvPlanar.PlaneCount())
	require.Equal(t, 1, YuvInterleaved.PlaneCount())
}
