package displaylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
)

var (
	red   = gfx.RGBA(1, 0, 0, 1)
	green = gfx.RGBA(0, 1, 0, 1)
	blue  = gfx.RGBA(0, 0, 1, 1)
)

// pushedStops returns the stops attached to the only gradient item of b.
func pushedStops(t *testing.T, b *Builder, push func(info PrimitiveInfo)) []gfx.GradientStop {
	t.Helper()
	push(NewPrimitiveInfo(jmath.R(0, 0, 10, 10)))
	_, _, l := b.Finalize()
	it := l.Iter()
	require.True(t, it.Next())
	stops, err := l.GradientStops(it.GradientStops()).Collect()
	require.NoError(t, err)
	require.False(t, it.Next())
	require.NoError(t, it.Err())
	return stops
}

func TestCreateGradientNormalizesStops(t *testing.T) {
	b, _ := newTestBuilder()
	in := []gfx.GradientStop{
		{Offset: -0.5, Color: red},
		{Offset: 0.5, Color: green},
		{Offset: 1.5, Color: blue},
	}
	g := b.CreateGradient(jmath.Pt(0, 0), jmath.Pt(100, 0), in, gfx.ExtendClamp)
	require.Equal(t, jmath.Pt(-50, 0), g.StartPoint)
	require.Equal(t, jmath.Pt(150, 0), g.EndPoint)
	require.Equal(t, gfx.ExtendClamp, g.ExtendMode)

	// The caller's stops are left alone.
	require.Equal(t, float32(-0.5), in[0].Offset)

	stops := pushedStops(t, b, func(info PrimitiveInfo) {
		b.PushGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
	})
	require.Equal(t, []gfx.GradientStop{
		{Offset: 0, Color: red},
		{Offset: 0.5, Color: green},
		{Offset: 1, Color: blue},
	}, stops)
}

func TestCreateGradientDegenerate(t *testing.T) {
	in := []gfx.GradientStop{
		{Offset: 0.25, Color: red},
		{Offset: 0.25, Color: blue},
	}

	t.Run("clamp", func(t *testing.T) {
		b, _ := newTestBuilder()
		g := b.CreateGradient(jmath.Pt(0, 0), jmath.Pt(100, 0), in, gfx.ExtendClamp)
		// The hard stop at 0.5 lands on the original offset.
		require.Equal(t, jmath.Pt(-25, 0), g.StartPoint)
		require.Equal(t, jmath.Pt(75, 0), g.EndPoint)

		stops := pushedStops(t, b, func(info PrimitiveInfo) {
			b.PushGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
		})
		require.Equal(t, []gfx.GradientStop{
			{Offset: 0, Color: red},
			{Offset: 0.5, Color: red},
			{Offset: 0.5, Color: blue},
			{Offset: 1, Color: blue},
		}, stops)
	})

	t.Run("repeat", func(t *testing.T) {
		b, _ := newTestBuilder()
		g := b.CreateGradient(jmath.Pt(0, 0), jmath.Pt(100, 0), in, gfx.ExtendRepeat)
		require.Equal(t, jmath.Pt(0, 0), g.StartPoint)
		require.Equal(t, jmath.Pt(100, 0), g.EndPoint)

		stops := pushedStops(t, b, func(info PrimitiveInfo) {
			b.PushGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
		})
		require.Equal(t, []gfx.GradientStop{
			{Offset: 0, Color: blue},
			{Offset: 1, Color: blue},
		}, stops)
	})
}

func TestNormalizeStopsPanics(t *testing.T) {
	assert.Panics(t, func() { normalizeStops(nil, gfx.ExtendClamp) })
	assert.Panics(t, func() {
		normalizeStops([]gfx.GradientStop{{Offset: 1}, {Offset: 0}}, gfx.ExtendClamp)
	})
}

func TestCreateRadialGradient(t *testing.T) {
	in := []gfx.GradientStop{
		{Offset: 0.5, Color: red},
		{Offset: 1, Color: blue},
	}

	b, _ := newTestBuilder()
	g := b.CreateRadialGradient(jmath.Pt(5, 5), jmath.Sz(20, 10), in, gfx.ExtendClamp)
	require.Equal(t, gfx.RadialGradient{
		StartCenter: jmath.Pt(5, 5),
		StartRadius: 10,
		EndCenter:   jmath.Pt(5, 5),
		EndRadius:   20,
		RatioXY:     2,
		ExtendMode:  gfx.ExtendClamp,
	}, g)
	stops := pushedStops(t, b, func(info PrimitiveInfo) {
		b.PushRadialGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
	})
	require.Equal(t, []gfx.GradientStop{{Offset: 0, Color: red}, {Offset: 1, Color: blue}}, stops)
}

func TestCreateRadialGradientWithoutRadius(t *testing.T) {
	in := []gfx.GradientStop{
		{Offset: 0, Color: red},
		{Offset: 1, Color: blue},
	}
	for _, radius := range []jmath.Size{jmath.Sz(0, 10), jmath.Sz(10, -1)} {
		b, _ := newTestBuilder()
		g := b.CreateRadialGradient(jmath.Pt(5, 5), radius, in, gfx.ExtendRepeat)
		require.Equal(t, gfx.RadialGradient{
			StartCenter: jmath.Pt(5, 5),
			EndCenter:   jmath.Pt(5, 5),
			EndRadius:   1,
			RatioXY:     1,
			ExtendMode:  gfx.ExtendRepeat,
		}, g)
		stops := pushedStops(t, b, func(info PrimitiveInfo) {
			b.PushRadialGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
		})
		require.Equal(t, []gfx.GradientStop{{Offset: 0, Color: blue}, {Offset: 1, Color: blue}}, stops)
	}
}

func TestCreateComplexRadialGradient(t *testing.T) {
	// Stops are pushed without normalization.
	in := []gfx.GradientStop{
		{Offset: -1, Color: red},
		{Offset: 2, Color: blue},
	}
	b, _ := newTestBuilder()
	g := b.CreateComplexRadialGradient(jmath.Pt(0, 0), 1, jmath.Pt(4, 4), 8, 0.5, in, gfx.ExtendClamp)
	require.Equal(t, float32(8), g.EndRadius)
	require.Equal(t, jmath.Pt(4, 4), g.EndCenter)
	stops := pushedStops(t, b, func(info PrimitiveInfo) {
		b.PushRadialGradient(info, g, jmath.Sz(10, 10), jmath.Sz(0, 0))
	})
	require.Equal(t, in, stops)
}

func TestPushStopsEmpty(t *testing.T) {
	b, _ := newTestBuilder()
	b.PushStops(nil)
	require.Zero(t, b.Len())
}
