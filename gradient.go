// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package displaylist

import (
	"slices"

	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
)

// normalizeStops maps the offsets of stops into [0, 1] and returns the
// original offsets of the new first and last stop, which callers use to
// adjust the gradient line. It modifies stops in place and returns the
// resulting slice, which differs from the input for degenerate gradients.
func normalizeStops(stops []gfx.GradientStop, mode gfx.ExtendMode) ([]gfx.GradientStop, float32, float32) {
	if len(stops) < 2 {
		panic("gradients need at least two stops")
	}

	first := stops[0]
	last := stops[len(stops)-1]
	if first.Offset > last.Offset {
		panic("gradient stops must be in ascending order")
	}

	origin := first.Offset
	delta := last.Offset - first.Offset

	if delta > jmath.Epsilon {
		for i := range stops {
			stops[i].Offset = (stops[i].Offset - origin) / delta
		}
		return stops, first.Offset, last.Offset
	}

	// All stops coincide. The result is a hard transition between the first
	// and last color, which can't be expressed in [0, 1] by scaling.
	stops = stops[:0]
	switch mode {
	case gfx.ExtendRepeat:
		// Repeating a zero-length gradient shows only the last color.
		stops = append(stops,
			gfx.GradientStop{Offset: 0, Color: last.Color},
			gfx.GradientStop{Offset: 1, Color: last.Color},
		)
		return stops, 0, 1
	default:
		stops = append(stops,
			gfx.GradientStop{Offset: 0, Color: first.Color},
			gfx.GradientStop{Offset: 0.5, Color: first.Color},
			gfx.GradientStop{Offset: 0.5, Color: last.Color},
			gfx.GradientStop{Offset: 1, Color: last.Color},
		)
		// Put the transition at 0.5 onto the original offset.
		return stops, last.Offset - 0.5, last.Offset + 0.5
	}
}

// CreateGradient pushes the normalized stops of a linear gradient and
// returns the gradient to use with PushGradient. Gradients must be pushed in
// the order they were created, as each one consumes the stops pushed before
// it.
func (b *Builder) CreateGradient(start, end jmath.Point, stops []gfx.GradientStop, mode gfx.ExtendMode) gfx.Gradient {
	stops, startOffset, endOffset := normalizeStops(slices.Clone(stops), mode)

	b.PushStops(stops)

	return gfx.Gradient{
		StartPoint: start.Lerp(end, startOffset),
		EndPoint:   start.Lerp(end, endOffset),
		ExtendMode: mode,
	}
}

// CreateRadialGradient is like CreateGradient for an elliptical gradient
// with the given center and radii.
func (b *Builder) CreateRadialGradient(center jmath.Point, radius jmath.Size, stops []gfx.GradientStop, mode gfx.ExtendMode) gfx.RadialGradient {
	if radius.Width <= 0 || radius.Height <= 0 {
		if len(stops) == 0 {
			panic("gradients need at least two stops")
		}
		// Renderers can't handle non-positive radii, draw the equivalent
		// solid gradient instead.
		lastColor := stops[len(stops)-1].Color
		b.PushStops([]gfx.GradientStop{
			{Offset: 0, Color: lastColor},
			{Offset: 1, Color: lastColor},
		})
		return gfx.RadialGradient{
			StartCenter: center,
			StartRadius: 0,
			EndCenter:   center,
			EndRadius:   1,
			RatioXY:     1,
			ExtendMode:  mode,
		}
	}

	stops, startOffset, endOffset := normalizeStops(slices.Clone(stops), mode)
	b.PushStops(stops)

	return gfx.RadialGradient{
		StartCenter: center,
		StartRadius: radius.Width * startOffset,
		EndCenter:   center,
		EndRadius:   radius.Width * endOffset,
		RatioXY:     radius.Width / radius.Height,
		ExtendMode:  mode,
	}
}

// CreateComplexRadialGradient pushes stops as they are, without
// normalization, for a two-circle radial gradient.
func (b *Builder) CreateComplexRadialGradient(
	startCenter jmath.Point,
	startRadius float32,
	endCenter jmath.Point,
	endRadius float32,
	ratioXY float32,
	stops []gfx.GradientStop,
	mode gfx.ExtendMode,
) gfx.RadialGradient {
	b.PushStops(stops)

	return gfx.RadialGradient{
		StartCenter: startCenter,
		StartRadius: startRadius,
		EndCenter:   endCenter,
		EndRadius:   endRadius,
		RatioXY:     ratioXY,
		ExtendMode:  mode,
	}
}

// PushStops pushes gradient stops for the next gradient item. Empty stops
// push nothing.
func (b *Builder) PushStops(stops []gfx.GradientStop) {
	if len(stops) == 0 {
		return
	}
	b.pushNewEmptyItem(SetGradientStopsItem{})
	pushSequence(b, gradientStopCodec, stops)
}
