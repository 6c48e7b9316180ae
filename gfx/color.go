// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"fmt"
	"structs"

	"honnef.co/go/color"
)

// ColorF is a straight-alpha color with float components in [0, 1].
type ColorF struct {
	_ structs.HostLayout

	R, G, B, A float32
}

var (
	Transparent = ColorF{}
	Black       = ColorF{A: 1}
	White       = ColorF{R: 1, G: 1, B: 1, A: 1}
)

func RGBA(r, g, b, a float32) ColorF {
	return ColorF{R: r, G: g, B: b, A: a}
}

// ColorFFromColor converts c into linear sRGB. Colors outside the sRGB
// gamut are not mapped.
func ColorFFromColor(c color.Color) ColorF {
	cc := c.Convert(color.LinearSRGB)
	return ColorF{
		R: float32(cc.Values[0]),
		G: float32(cc.Values[1]),
		B: float32(cc.Values[2]),
		A: float32(cc.Values[3]),
	}
}

func (c ColorF) ScaleRGB(scale float32) ColorF {
	return ColorF{R: c.R * scale, G: c.G * scale, B: c.B * scale, A: c.A}
}

func (c ColorF) Premultiplied() [4]float32 {
	return [4]float32{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

func (c ColorF) ToColorU() ColorU {
	return ColorU{
		R: roundToU8(c.R),
		G: roundToU8(c.G),
		B: roundToU8(c.B),
		A: roundToU8(c.A),
	}
}

func (c ColorF) String() string {
	return fmt.Sprintf("rgba(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}

// ColorU is an 8 bit per channel color.
type ColorU struct {
	R, G, B, A uint8
}

func (c ColorU) ToColorF() ColorF {
	return ColorF{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func roundToU8(f float32) uint8 {
	return uint8(min(max(f, 0), 1)*255 + 0.5)
}
