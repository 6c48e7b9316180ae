// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package jmath contains the layout-space geometry shared by display items.
// All types are plain old data with a host layout and no padding, so that
// slices of them can be copied into a display list verbatim.
package jmath

import (
	"math"
	"structs"

	"golang.org/x/exp/constraints"
	"honnef.co/go/curve"
)

const Epsilon = 1e-6

func Abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// Lerp linearly interpolates between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

type Point struct {
	_ structs.HostLayout

	X, Y float32
}

func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Add(v Vector) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// Lerp returns the point at t along the line from p to o.
func (p Point) Lerp(o Point, t float32) Point {
	return Point{X: Lerp(p.X, o.X, t), Y: Lerp(p.Y, o.Y, t)}
}

type Vector struct {
	_ structs.HostLayout

	X, Y float32
}

func Vec(x, y float32) Vector { return Vector{X: x, Y: y} }

type Size struct {
	_ structs.HostLayout

	Width, Height float32
}

func Sz(w, h float32) Size { return Size{Width: w, Height: h} }

type Rect struct {
	_ structs.HostLayout

	Origin Point
	Size   Size
}

func R(x, y, w, h float32) Rect {
	return Rect{Origin: Pt(x, y), Size: Sz(w, h)}
}

func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.Height }

func (r Rect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

func (r Rect) Translate(v Vector) Rect {
	return Rect{Origin: r.Origin.Add(v), Size: r.Size}
}

// SideOffsets holds per-edge values in CSS order.
type SideOffsets struct {
	_ structs.HostLayout

	Top, Right, Bottom, Left float32
}

// BorderRadius holds the two radii of every corner.
type BorderRadius struct {
	_ structs.HostLayout

	TopLeft, TopRight, BottomLeft, BottomRight Size
}

func UniformBorderRadius(r float32) BorderRadius {
	s := Sz(r, r)
	return BorderRadius{TopLeft: s, TopRight: s, BottomLeft: s, BottomRight: s}
}

func (br BorderRadius) IsZero() bool {
	return br == BorderRadius{}
}

type Transform struct {
	_ structs.HostLayout

	Matrix      [4]float32
	Translation [2]float32
}

var Identity = Transform{
	Matrix: [4]float32{1, 0, 0, 1},
}

func TransformFromCurve(transform curve.Affine) Transform {
	c := transform.Coefficients()
	return Transform{
		Matrix:      [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
		Translation: [2]float32{float32(c[4]), float32(c[5])},
	}
}

// RectFromCurve converts r, whose corners may be in any order.
func RectFromCurve(r curve.Rect) Rect {
	x0, y0 := r.MinX(), r.MinY()
	return R(float32(x0), float32(y0), float32(r.MaxX()-x0), float32(r.MaxY()-y0))
}
