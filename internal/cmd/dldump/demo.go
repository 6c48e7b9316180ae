package main

import (
	"golang.org/x/image/math/fixed"
	"honnef.co/go/color"
	"honnef.co/go/curve"
	"honnef.co/go/displaylist"
	"honnef.co/go/displaylist/gfx"
	"honnef.co/go/displaylist/jmath"
)

// Demo colors are given in sRGB and stored linear.
var (
	demoRed  = gfx.ColorFFromColor(color.Make(color.SRGB, 0.9, 0.2, 0.1, 1))
	demoBlue = gfx.ColorFFromColor(color.Make(color.SRGB, 0.1, 0.3, 0.9, 1))
	demoInk  = gfx.ColorFFromColor(color.Make(color.SRGB, 0.1, 0.1, 0.1, 0.9))
)

// buildDemo builds a small list that uses every kind of auxiliary
// sequence.
func buildDemo() *displaylist.BuiltDisplayList {
	pipeline := displaylist.PipelineID{Namespace: 1, Index: 1}
	b := displaylist.NewBuilder(pipeline, jmath.Sz(800, 600))

	page := jmath.R(0, 0, 800, 600)
	b.PushRect(displaylist.NewPrimitiveInfo(page), gfx.White)

	clip := b.DefineClip(displaylist.None[displaylist.ClipID](), page.Translate(jmath.Vec(20, 20)), []displaylist.ComplexClipRegion{
		{Rect: jmath.R(20, 20, 760, 560), Radii: jmath.UniformBorderRadius(8), Mode: displaylist.ClipModeClip},
	}, displaylist.None[displaylist.ImageMask]())
	b.PushClipID(clip)

	// The card is tilted about its center; its bounds cover the rotated
	// corners.
	card := curve.Rect{X0: 40, Y0: 40, X1: 340, Y1: 240}
	tilt := curve.RotateAbout(0.05, card.Center())
	b.PushStackingContext(
		displaylist.NewPrimitiveInfo(jmath.RectFromCurve(tilt.TransformRectBoundingBox(card))),
		displaylist.StackingContext{
			Transform:    displaylist.Some(displaylist.PropertyBinding{Value: jmath.TransformFromCurve(tilt)}),
			MixBlendMode: gfx.MixMultiply,
		},
		[]gfx.FilterOp{
			gfx.Opacity(0.8),
			gfx.DropShadow(jmath.Vec(2, 2), 4, demoInk),
		},
	)
	cardRect := jmath.RectFromCurve(card)
	g := b.CreateGradient(cardRect.Origin, jmath.Pt(cardRect.MaxX(), cardRect.Origin.Y), []gfx.GradientStop{
		{Offset: -0.5, Color: demoRed},
		{Offset: 1.5, Color: demoBlue},
	}, gfx.ExtendClamp)
	b.PushGradient(displaylist.NewPrimitiveInfo(cardRect), g, cardRect.Size, jmath.Size{})

	baseline := curve.Translate(curve.Vec(60, 120))
	var glyphs []displaylist.GlyphInstance
	for i := range 12 {
		pen := curve.Pt(float64(i*9), 0).Transform(baseline)
		glyphs = append(glyphs, displaylist.GlyphAt(uint32(36+i), fixed.P(int(pen.X), int(pen.Y))))
	}
	b.PushText(
		displaylist.NewPrimitiveInfo(jmath.R(60, 100, 200, 30)),
		glyphs,
		displaylist.FontInstanceKey{Namespace: 1, Key: 1},
		demoInk,
		displaylist.Some(displaylist.GlyphOptions{RenderMode: displaylist.RenderModeSubpixel}),
	)
	b.PopStackingContext()

	b.PopClipID()

	_, _, list := b.Finalize()
	return list
}
