//Package validation scores protein geometry against tabulated
//reference distributions: Ramachandran (phi/psi) probabilities per
//residue class and sidechain rotamer probabilities. Scores are
//classified into favored/allowed/outlier bins against per-class
//cutoffs and mapped to colors for display.
package validation

import (
	"fmt"
	"image/color"

	"github.com/kaldera-bio/refine"
)

//Bin classifies a probability score against a cutoff pair. BinNA
//marks residues that could not be scored (incomplete, no reference
//distribution).
type Bin int

const (
	BinNA      Bin = -1
	BinFavored Bin = 0
	BinAllowed Bin = 1
	BinOutlier Bin = 2
)

func (b Bin) String() string {
	switch b {
	case BinFavored:
		return "Favored"
	case BinAllowed:
		return "Allowed"
	case BinOutlier:
		return "Outlier"
	}
	return "N/A"
}

//Cutoffs holds the two probability thresholds of one residue class:
//scores at or above Allowed are favored, scores below Outlier are
//outliers, anything between is allowed.
type Cutoffs struct {
	Allowed float64
	Outlier float64
}

//Bin classifies a score. Negative scores mean "could not score".
func (c Cutoffs) Bin(score float64) Bin {
	switch {
	case score < 0:
		return BinNA
	case score >= c.Allowed:
		return BinFavored
	case score >= c.Outlier:
		return BinAllowed
	default:
		return BinOutlier
	}
}

//Color is RGBA with components in [0,1].
type Color [4]float64

//NRGBA converts to the stdlib color type used by the plotters.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: uint8(clamp01(c[3])*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b Color, t float64) Color {
	var out Color
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

//ColorScale maps scores to colors with a three-stop linear ramp:
//Outlier at the outlier cutoff and below, Allowed at the allowed
//cutoff, Favored at probability 1. Unscorable residues get NA.
type ColorScale struct {
	Favored Color
	Allowed Color
	Outlier Color
	NA      Color
}

//DefaultColorScale colors favored residues green, allowed orange,
//outliers red and unscorable residues grey.
func DefaultColorScale() ColorScale {
	return ColorScale{
		Favored: Color{0, 1, 0, 1},
		Allowed: Color{1, 0.65, 0, 1},
		Outlier: Color{1, 0, 0, 1},
		NA:      Color{0.5, 0.5, 0.5, 1},
	}
}

//Color maps one score onto the ramp defined by the given cutoffs.
func (cs ColorScale) Color(score float64, c Cutoffs) Color {
	switch {
	case score < 0:
		return cs.NA
	case score <= c.Outlier:
		return cs.Outlier
	case score >= 1:
		return cs.Favored
	case score < c.Allowed:
		t := (score - c.Outlier) / (c.Allowed - c.Outlier)
		return lerpColor(cs.Outlier, cs.Allowed, t)
	default:
		t := (score - c.Allowed) / (1 - c.Allowed)
		return lerpColor(cs.Allowed, cs.Favored, t)
	}
}

func checkCutoffs(allowed, outlier float64, caller string) error {
	if allowed < 0 || allowed > 1 || outlier < 0 || outlier > 1 {
		return refine.NewConfigError(fmt.Sprintf("cutoffs must lie in [0,1], got allowed=%v outlier=%v",
			allowed, outlier), caller)
	}
	return nil
}
