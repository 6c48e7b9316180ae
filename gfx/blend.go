package gfx

// MixBlendMode defines the color mixing function a stacking context is
// composited with.
type MixBlendMode uint32

const (
	// Default attribute which specifies no blending. The blending formula
	// simply selects the source color.
	MixNormal MixBlendMode = iota
	// Source color is multiplied by the destination color and replaces the
	// destination.
	MixMultiply
	// Multiplies the complements of the backdrop and source color values, then
	// complements the result.
	MixScreen
	// Multiplies or screens the colors, depending on the backdrop color value.
	MixOverlay
	// Selects the darker of the backdrop and source colors.
	MixDarken
	// Selects the lighter of the backdrop and source colors.
	MixLighten
	// Brightens the backdrop color to reflect the source color. Painting with
	// black produces no change.
	MixColorDodge
	// Darkens the backdrop color to reflect the source color. Painting with
	// white produces no change.
	MixColorBurn
	// Multiplies or screens the colors, depending on the source color value.
	MixHardLight
	// Darkens or lightens the colors, depending on the source color value.
	MixSoftLight
	// Subtracts the darker of the two constituent colors from the lighter
	// color.
	MixDifference
	// Produces an effect similar to that of the Difference mode but lower in
	// contrast.
	MixExclusion
	// Creates a color with the hue of the source color and the saturation and
	// luminosity of the backdrop color.
	MixHue
	// Creates a color with the saturation of the source color and the hue and
	// luminosity of the backdrop color.
	MixSaturation
	// Creates a color with the hue and saturation of the source color and the
	// luminosity of the backdrop color.
	MixColor
	// Creates a color with the luminosity of the source color and the hue and
	// saturation of the backdrop color.
	MixLuminosity

	numMixBlendModes
)

var mixNames = [...]string{
	"Normal", "Multiply", "Screen", "Overlay", "Darken", "Lighten",
	"ColorDodge", "ColorBurn", "HardLight", "SoftLight", "Difference",
	"Exclusion", "Hue", "Saturation", "Color", "Luminosity",
}

func (m MixBlendMode) Valid() bool { return m < numMixBlendModes }

func (m MixBlendMode) String() string {
	if !m.Valid() {
		return "MixBlendMode(?)"
	}
	return mixNames[m]
}
