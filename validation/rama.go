package validation

import (
	"fmt"
	"math"

	"github.com/kaldera-bio/refine"
	"github.com/kaldera-bio/refine/interp"
)

//RamaCase is the Ramachandran class of a residue. Proline is split by
//its omega conformation, and residues preceding a proline get their
//own distribution.
type RamaCase int

const (
	CaseNone RamaCase = iota
	CaseCisPro
	CaseTransPro
	CaseGlycine
	CasePrePro
	CaseIleVal
	CaseGeneral
	numRamaCases
)

func (c RamaCase) String() string {
	switch c {
	case CaseCisPro:
		return "cis-Pro"
	case CaseTransPro:
		return "trans-Pro"
	case CaseGlycine:
		return "Gly"
	case CasePrePro:
		return "pre-Pro"
	case CaseIleVal:
		return "Ile/Val"
	case CaseGeneral:
		return "General"
	}
	return "None"
}

//Rama is the Ramachandran view of one residue: its omega, phi and
//psi dihedrals. Terminal residues have incomplete views.
type Rama struct {
	residue *refine.Residue
	omega   *refine.ProperDihedral
	phi     *refine.ProperDihedral
	psi     *refine.ProperDihedral
}

func (R *Rama) Residue() *refine.Residue      { return R.residue }
func (R *Rama) Omega() *refine.ProperDihedral { return R.omega }
func (R *Rama) Phi() *refine.ProperDihedral   { return R.phi }
func (R *Rama) Psi() *refine.ProperDihedral   { return R.psi }

//Complete reports whether the residue has both phi and psi and can
//therefore be scored.
func (R *Rama) Complete() bool { return R.phi != nil && R.psi != nil }

//Angles returns (phi, psi) in radians. It panics on incomplete views.
func (R *Rama) Angles() (float64, float64) {
	return R.phi.Angle(), R.psi.Angle()
}

//RamaMgr scores residues against per-class Ramachandran probability
//grids. The dihedrals themselves come from a ProperDihedralMgr loaded
//with backbone definitions.
type RamaMgr struct {
	dmgr    *refine.DihedralMgr[*refine.ProperDihedral]
	grids   map[RamaCase]*interp.RegularGridInterpolator
	cutoffs map[RamaCase]Cutoffs
	colors  ColorScale
}

//NewRamaMgr returns a manager with the standard cutoffs and colors
//and no probability grids; feed those with AddInterpolator.
func NewRamaMgr(dmgr *refine.DihedralMgr[*refine.ProperDihedral]) *RamaMgr {
	m := &RamaMgr{
		dmgr:    dmgr,
		grids:   make(map[RamaCase]*interp.RegularGridInterpolator),
		cutoffs: make(map[RamaCase]Cutoffs),
		colors:  DefaultColorScale(),
	}
	//MolProbity-style defaults: the general case tolerates far lower
	//probabilities before flagging an outlier than the restricted
	//classes do.
	for c := CaseCisPro; c < numRamaCases; c++ {
		m.cutoffs[c] = Cutoffs{Allowed: 0.02, Outlier: 0.002}
	}
	m.cutoffs[CaseGeneral] = Cutoffs{Allowed: 0.02, Outlier: 0.0005}
	return m
}

//SetCutoffs replaces the thresholds of one class.
func (M *RamaMgr) SetCutoffs(c RamaCase, allowed, outlier float64) error {
	if c <= CaseNone || c >= numRamaCases {
		return refine.NewConfigError("no such Ramachandran case", "SetCutoffs")
	}
	if err := checkCutoffs(allowed, outlier, "SetCutoffs"); err != nil {
		return err
	}
	M.cutoffs[c] = Cutoffs{Allowed: allowed, Outlier: outlier}
	return nil
}

//CutoffsFor returns the thresholds of one class.
func (M *RamaMgr) CutoffsFor(c RamaCase) Cutoffs { return M.cutoffs[c] }

//SetColorScale replaces the four display colors.
func (M *RamaMgr) SetColorScale(favored, allowed, outlier, na Color) {
	M.colors = ColorScale{Favored: favored, Allowed: allowed, Outlier: outlier, NA: na}
}

//ColorScale returns the current display colors.
func (M *RamaMgr) ColorScale() ColorScale { return M.colors }

//AddInterpolator installs the probability grid of one class,
//replacing any previous one. Ramachandran grids are strictly
//two-dimensional (phi, psi).
func (M *RamaMgr) AddInterpolator(c RamaCase, g *interp.RegularGridInterpolator) error {
	if c <= CaseNone || c >= numRamaCases {
		return refine.NewConfigError("no such Ramachandran case", "AddInterpolator")
	}
	if g.Dim() != 2 {
		return refine.NewConfigError(fmt.Sprintf("Ramachandran grids are 2D, got %dD", g.Dim()),
			"AddInterpolator")
	}
	M.grids[c] = g
	return nil
}

//RamaFor assembles the Ramachandran view of a residue, creating the
//backbone dihedrals on demand. Missing dihedrals (chain termini) are
//left nil in the view, and residue types without backbone definitions
//(waters, ligands) yield a view that classifies as CaseNone.
func (M *RamaMgr) RamaFor(res *refine.Residue) (*Rama, error) {
	r := &Rama{residue: res}
	if _, ok := M.dmgr.Def(res.Name, "phi"); !ok {
		return r, nil
	}
	var err error
	if r.omega, err = M.dmgr.Get(res, "omega", true); err != nil {
		return nil, errDecorate(err, "RamaFor")
	}
	if r.phi, err = M.dmgr.Get(res, "phi", true); err != nil {
		return nil, errDecorate(err, "RamaFor")
	}
	if r.psi, err = M.dmgr.Get(res, "psi", true); err != nil {
		return nil, errDecorate(err, "RamaFor")
	}
	return r, nil
}

//Case resolves the Ramachandran class of a view. Prolines split on
//the omega angle, glycine and Ile/Val get their own classes, and any
//residue directly preceding a proline is pre-Pro regardless of type.
//Views missing phi or psi are CaseNone.
func (M *RamaMgr) Case(r *Rama) RamaCase {
	if !r.Complete() {
		return CaseNone
	}
	switch r.residue.Name {
	case "PRO":
		if r.omega == nil {
			return CaseNone
		}
		if math.Abs(r.omega.Angle()) <= refine.CisCutoff {
			return CaseCisPro
		}
		return CaseTransPro
	case "GLY":
		return CaseGlycine
	}
	//psi's last atom is the following residue's N
	if r.psi.Atoms()[3].Residue().Name == "PRO" {
		return CasePrePro
	}
	switch r.residue.Name {
	case "ILE", "VAL":
		return CaseIleVal
	}
	return CaseGeneral
}

//Validate scores one view: the probability of its (phi, psi) under
//the class distribution, plus the resolved class. Views that are
//incomplete or whose class has no grid score -1.
func (M *RamaMgr) Validate(r *Rama) (float64, RamaCase, error) {
	c := M.Case(r)
	if c == CaseNone {
		return -1, c, nil
	}
	g, ok := M.grids[c]
	if !ok {
		return -1, c, nil
	}
	phi, psi := r.Angles()
	score, err := g.Interpolate([]float64{phi, psi})
	if err != nil {
		return -1, c, errDecorate(err, "Validate")
	}
	return score, c, nil
}

//ValidateStructure scores every residue of a structure in order and
//returns the parallel score and class slices.
func (M *RamaMgr) ValidateStructure(s *refine.Structure) ([]float64, []RamaCase, error) {
	residues := s.Residues()
	scores := make([]float64, len(residues))
	cases := make([]RamaCase, len(residues))
	for i, res := range residues {
		r, err := M.RamaFor(res)
		if err != nil {
			return nil, nil, errDecorate(err, "ValidateStructure")
		}
		if scores[i], cases[i], err = M.Validate(r); err != nil {
			return nil, nil, errDecorate(err, "ValidateStructure")
		}
	}
	return scores, cases, nil
}

//BinScore classifies a score under its class cutoffs.
func (M *RamaMgr) BinScore(score float64, c RamaCase) Bin {
	if c == CaseNone {
		return BinNA
	}
	return M.cutoffs[c].Bin(score)
}

//ColorByScores maps scores to display colors, one per entry.
func (M *RamaMgr) ColorByScores(scores []float64, cases []RamaCase) []Color {
	out := make([]Color, len(scores))
	for i, s := range scores {
		if cases[i] == CaseNone {
			out[i] = M.colors.NA
			continue
		}
		out[i] = M.colors.Color(s, M.cutoffs[cases[i]])
	}
	return out
}

func errDecorate(err error, caller string) error {
	if e, ok := err.(refine.Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}
