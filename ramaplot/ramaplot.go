//Package ramaplot renders Ramachandran scatter plots: one point per
//scored residue at its (phi, psi) in degrees, colored by validation
//bin. Output goes through gonum/plot, so any of its supported image
//formats works; tests use PNG.
package ramaplot

import (
	"math"

	"github.com/kaldera-bio/refine"
	"github.com/kaldera-bio/refine/validation"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const deg = 180 / math.Pi

//Plot writes a Ramachandran scatter plot. phi and psi are in radians,
//colors has one entry per point. The axes are fixed to the full
//[-180, 180] range regardless of the data.
func Plot(phi, psi []float64, colors []validation.Color, title, path string) error {
	if len(phi) != len(psi) || len(phi) != len(colors) {
		return refine.NewConfigError("phi, psi and colors must have equal length", "ramaplot.Plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Phi"
	p.Y.Label.Text = "Psi"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -180, 180
	p.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(phi))
	for i := range phi {
		pts[i].X = phi[i] * deg
		pts[i].Y = psi[i] * deg
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  colors[i].NRGBA(),
			Radius: vg.Points(2.5),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

//Structure validates every residue of a structure with the given
//manager and plots the scorable ones, colored by score.
func Structure(s *refine.Structure, M *validation.RamaMgr, title, path string) error {
	scores, cases, err := M.ValidateStructure(s)
	if err != nil {
		return err
	}
	colors := M.ColorByScores(scores, cases)
	var phi, psi []float64
	var kept []validation.Color
	for i, res := range s.Residues() {
		if cases[i] == validation.CaseNone {
			continue
		}
		r, err := M.RamaFor(res)
		if err != nil {
			return err
		}
		f, y := r.Angles()
		phi = append(phi, f)
		psi = append(psi, y)
		kept = append(kept, colors[i])
	}
	return Plot(phi, psi, kept, title, path)
}
