package gfx

import (
	"fmt"

	"honnef.co/go/displaylist/jmath"
)

type FilterKind uint32

const (
	FilterBlur FilterKind = iota
	FilterBrightness
	FilterContrast
	FilterGrayscale
	FilterHueRotate
	FilterInvert
	FilterOpacity
	FilterSaturate
	FilterSepia
	FilterDropShadow

	numFilterKinds
)

var filterNames = [...]string{
	"Blur", "Brightness", "Contrast", "Grayscale", "HueRotate", "Invert",
	"Opacity", "Saturate", "Sepia", "DropShadow",
}

func (k FilterKind) Valid() bool { return k < numFilterKinds }

func (k FilterKind) String() string {
	if !k.Valid() {
		return "FilterKind(?)"
	}
	return filterNames[k]
}

// FilterOp is one entry of a stacking context's filter chain. Amount is the
// single parameter of every kind except DropShadow, which uses Offset, Amount
// (the blur radius) and Color.
type FilterOp struct {
	Kind   FilterKind
	Amount float32
	Offset jmath.Vector
	Color  ColorF
}

func Blur(radius float32) FilterOp      { return FilterOp{Kind: FilterBlur, Amount: radius} }
func Opacity(alpha float32) FilterOp    { return FilterOp{Kind: FilterOpacity, Amount: alpha} }
func Grayscale(amount float32) FilterOp { return FilterOp{Kind: FilterGrayscale, Amount: amount} }
func HueRotate(angle float32) FilterOp  { return FilterOp{Kind: FilterHueRotate, Amount: angle} }

func DropShadow(offset jmath.Vector, blur float32, color ColorF) FilterOp {
	return FilterOp{Kind: FilterDropShadow, Amount: blur, Offset: offset, Color: color}
}

func (f FilterOp) String() string {
	if f.Kind == FilterDropShadow {
		return fmt.Sprintf("DropShadow(%v, %v, %v)", f.Offset, f.Amount, f.Color)
	}
	return fmt.Sprintf("%s(%v)", f.Kind, f.Amount)
}
