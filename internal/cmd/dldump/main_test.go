package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"honnef.co/go/displaylist"
	"honnef.co/go/displaylist/jmath"
)

func TestDemoSummary(t *testing.T) {
	list := buildDemo()

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, list))
	out := buf.String()
	require.Contains(t, out, "Gradient             1\n")
	require.Contains(t, out, "Text                 1\n")
	require.Contains(t, out, "glyphs               12\n")
	require.Contains(t, out, "top-level contexts   1\n")
	require.NotContains(t, out, "SetGradientStops")
}

func TestDemoPayload(t *testing.T) {
	b, err := buildDemo().IntoPayload()
	require.NoError(t, err)
	list, err := displaylist.FromPayload(b)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, list.Dump(&buf))
	require.Contains(t, buf.String(), "filters(2)")
	require.Contains(t, buf.String(), "stops(2)")
	require.Contains(t, buf.String(), "complex_clips(1)")
}

func TestDemoContent(t *testing.T) {
	list := buildDemo()
	it := list.Iter()
	var sawCard, sawGradient bool
	for it.Next() {
		switch item := it.SpecificItem().(type) {
		case displaylist.PushStackingContextItem:
			sawCard = true
			tr, ok := item.StackingContext.Transform.Get()
			require.True(t, ok)
			require.NotEqual(t, jmath.Identity, tr.Value)
			// The bounds grow to hold the rotated card.
			r := it.Rect()
			require.Less(t, r.Origin.X, float32(40))
			require.Greater(t, r.Size.Width, float32(300))
		case displaylist.GradientItem:
			sawGradient = true
			stops, err := list.GradientStops(it.GradientStops()).Collect()
			require.NoError(t, err)
			require.Len(t, stops, 2)
			require.Equal(t, demoRed, stops[0].Color)
			require.Equal(t, demoBlue, stops[1].Color)
			// Stored colors are linear, so darker than their sRGB inputs.
			require.InDelta(t, 0.7874, stops[0].Color.R, 1e-3)
			require.InDelta(t, 0.0331, stops[0].Color.G, 1e-3)
		}
	}
	require.NoError(t, it.Err())
	require.True(t, sawCard)
	require.True(t, sawGradient)
}
