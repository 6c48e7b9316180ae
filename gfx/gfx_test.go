package gfx

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/color"
	"honnef.co/go/displaylist/jmath"
)

func TestGradientStopLayout(t *testing.T) {
	assert.EqualValues(t, 20, unsafe.Sizeof(GradientStop{}))
	assert.EqualValues(t, 16, unsafe.Sizeof(ColorF{}))
}

func TestColorConversions(t *testing.T) {
	require.Equal(t, ColorU{R: 255, G: 128, B: 0, A: 255}, RGBA(1, 0.5, 0, 1).ToColorU())
	// Out of range components saturate.
	require.Equal(t, ColorU{R: 255, A: 0}, RGBA(2, -1, 0, 0).ToColorU())
	require.Equal(t, White, ColorU{R: 255, G: 255, B: 255, A: 255}.ToColorF())

	require.Equal(t, [4]float32{0.5, 0.25, 0, 0.5}, RGBA(1, 0.5, 0, 0.5).Premultiplied())
	require.Equal(t, RGBA(0.5, 0.5, 0.5, 1), White.ScaleRGB(0.5))
	require.Equal(t, "rgba(1, 0, 0, 1)", RGBA(1, 0, 0, 1).String())
}

func TestColorFFromColor(t *testing.T) {
	// Linear colors pass through untouched, including alpha.
	require.Equal(t, RGBA(0.25, 0.5, 1, 0.5), ColorFFromColor(color.Make(color.LinearSRGB, 0.25, 0.5, 1, 0.5)))

	c := ColorFFromColor(color.Make(color.SRGB, 1, 0.5, 0, 0.75))
	assert.InDelta(t, 1, c.R, 1e-5)
	assert.InDelta(t, 0.214, c.G, 1e-3)
	assert.InDelta(t, 0, c.B, 1e-5)
	assert.Equal(t, float32(0.75), c.A)
}

func TestEnumNames(t *testing.T) {
	require.Equal(t, "Multiply", MixMultiply.String())
	require.Equal(t, "Luminosity", MixLuminosity.String())
	require.False(t, MixBlendMode(numMixBlendModes).Valid())
	require.Equal(t, "MixBlendMode(?)", MixBlendMode(100).String())

	require.Equal(t, "Repeat", ExtendRepeat.String())
	require.True(t, ExtendClamp.Valid())
	require.False(t, ExtendMode(2).Valid())

	require.Equal(t, "Sepia", FilterSepia.String())
	require.False(t, FilterKind(numFilterKinds).Valid())
}

func TestFilterString(t *testing.T) {
	require.Equal(t, "Opacity(0.5)", Opacity(0.5).String())
	require.Equal(t, "HueRotate(90)", HueRotate(90).String())
	require.Equal(t, FilterGrayscale, Grayscale(1).Kind)
	require.Contains(t, DropShadow(jmath.Vec(1, 1), 2, Black).String(), "DropShadow(")
}
