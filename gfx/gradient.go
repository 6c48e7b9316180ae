package gfx

import (
	"structs"

	"honnef.co/go/displaylist/jmath"
)

type GradientStop struct {
	_ structs.HostLayout

	Offset float32
	Color  ColorF
}

type ExtendMode uint32

const (
	ExtendClamp ExtendMode = iota
	ExtendRepeat
)

func (e ExtendMode) Valid() bool { return e <= ExtendRepeat }

func (e ExtendMode) String() string {
	switch e {
	case ExtendClamp:
		return "Clamp"
	case ExtendRepeat:
		return "Repeat"
	default:
		return "ExtendMode(?)"
	}
}

// Gradient is a linear gradient whose stops were pushed separately, ahead
// of the item using it.
type Gradient struct {
	_ structs.HostLayout

	StartPoint jmath.Point
	EndPoint   jmath.Point
	ExtendMode ExtendMode
}

type RadialGradient struct {
	_ structs.HostLayout

	StartCenter jmath.Point
	StartRadius float32
	EndCenter   jmath.Point
	EndRadius   float32
	RatioXY     float32
	ExtendMode  ExtendMode
}
