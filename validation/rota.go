package validation

import (
	"fmt"
	"math"

	"github.com/kaldera-bio/refine"
	"github.com/kaldera-bio/refine/interp"
	"github.com/kaldera-bio/refine/refdata"
)

//RotaDef describes the sidechain of one residue type: the number of
//chi dihedrals and whether the terminal one is two-fold symmetric
//(ASP, GLU, PHE, TYR), in which case its angle folds into [0, pi).
type RotaDef struct {
	NChi int
	Symm bool
}

//Rotamer is the sidechain view of one residue: its chi dihedrals in
//order.
type Rotamer struct {
	residue *refine.Residue
	chi     []*refine.ProperDihedral
	def     *RotaDef
}

func (R *Rotamer) Residue() *refine.Residue { return R.residue }

//NumChi returns the number of chi dihedrals of the residue type.
func (R *Rotamer) NumChi() int { return R.def.NChi }

//Chi returns the i-th chi dihedral, counting from zero.
func (R *Rotamer) Chi(i int) *refine.ProperDihedral { return R.chi[i] }

//Angles returns the current chi angles in radians, with a symmetric
//terminal chi folded into [0, pi).
func (R *Rotamer) Angles() []float64 {
	out := make([]float64, len(R.chi))
	for i, chi := range R.chi {
		out[i] = chi.Angle()
	}
	if R.def.Symm {
		last := len(out) - 1
		out[last] = math.Mod(out[last]+math.Pi, math.Pi)
	}
	return out
}

//RotaMgr scores sidechain conformations against per-residue-type
//rotamer probability grids. Chi definitions live in the shared
//ProperDihedralMgr under the names chi1..chiN.
type RotaMgr struct {
	dmgr    *refine.DihedralMgr[*refine.ProperDihedral]
	defs    map[string]*RotaDef
	grids   map[string]*interp.RegularGridInterpolator
	cutoffs Cutoffs
	colors  ColorScale
}

//NewRotaMgr returns a manager with the standard rotamer cutoffs and
//colors and no definitions or grids.
func NewRotaMgr(dmgr *refine.DihedralMgr[*refine.ProperDihedral]) *RotaMgr {
	return &RotaMgr{
		dmgr:    dmgr,
		defs:    make(map[string]*RotaDef),
		grids:   make(map[string]*interp.RegularGridInterpolator),
		cutoffs: Cutoffs{Allowed: 0.02, Outlier: 0.003},
		colors:  DefaultColorScale(),
	}
}

//AddRotamerDef registers the sidechain description of a residue type.
//Duplicates are a ConfigError.
func (M *RotaMgr) AddRotamerDef(rname string, nchi int, symm bool) error {
	if nchi < 1 {
		return refine.NewConfigError(fmt.Sprintf("%s: a rotamer needs at least one chi", rname),
			"AddRotamerDef")
	}
	if _, ok := M.defs[rname]; ok {
		return refine.NewConfigError(fmt.Sprintf("rotamer definition for %s already exists", rname),
			"AddRotamerDef")
	}
	M.defs[rname] = &RotaDef{NChi: nchi, Symm: symm}
	return nil
}

//AddRotamerTable registers every entry of a parsed rotamer table.
func (M *RotaMgr) AddRotamerTable(table refdata.RotamerTable) error {
	for rname, e := range table {
		if err := M.AddRotamerDef(rname, e.NChi, e.Symm); err != nil {
			return errDecorate(err, "AddRotamerTable")
		}
	}
	return nil
}

//RotamerDef returns the sidechain description of a residue type.
func (M *RotaMgr) RotamerDef(rname string) (*RotaDef, bool) {
	d, ok := M.defs[rname]
	return d, ok
}

//SetCutoffs replaces the shared rotamer thresholds.
func (M *RotaMgr) SetCutoffs(allowed, outlier float64) error {
	if err := checkCutoffs(allowed, outlier, "SetCutoffs"); err != nil {
		return err
	}
	M.cutoffs = Cutoffs{Allowed: allowed, Outlier: outlier}
	return nil
}

//CutoffsFor returns the shared rotamer thresholds.
func (M *RotaMgr) CutoffsFor() Cutoffs { return M.cutoffs }

//SetColorScale replaces the four display colors.
func (M *RotaMgr) SetColorScale(favored, allowed, outlier, na Color) {
	M.colors = ColorScale{Favored: favored, Allowed: allowed, Outlier: outlier, NA: na}
}

//AddInterpolator installs the probability grid of a residue type,
//replacing any previous one. The grid dimension must match the
//registered chi count.
func (M *RotaMgr) AddInterpolator(rname string, g *interp.RegularGridInterpolator) error {
	def, ok := M.defs[rname]
	if !ok {
		return refine.NewConfigError(fmt.Sprintf("no rotamer definition for %s", rname),
			"AddInterpolator")
	}
	if g.Dim() != def.NChi {
		return refine.NewConfigError(fmt.Sprintf("%s has %d chi dihedrals, grid is %dD",
			rname, def.NChi, g.Dim()), "AddInterpolator")
	}
	M.grids[rname] = g
	return nil
}

//RotamerFor assembles the sidechain view of a residue, creating the
//chi dihedrals on demand. Residue types without a rotamer definition,
//and residues missing sidechain atoms, yield nil without error.
func (M *RotaMgr) RotamerFor(res *refine.Residue) (*Rotamer, error) {
	def, ok := M.defs[res.Name]
	if !ok {
		return nil, nil
	}
	chi := make([]*refine.ProperDihedral, def.NChi)
	for i := range chi {
		d, err := M.dmgr.Get(res, fmt.Sprintf("chi%d", i+1), true)
		if err != nil {
			return nil, errDecorate(err, "RotamerFor")
		}
		if d == nil {
			return nil, nil
		}
		chi[i] = d
	}
	return &Rotamer{residue: res, chi: chi, def: def}, nil
}

//Validate scores one rotamer: the probability of its chi angles
//under the residue type's distribution. Nil rotamers and types
//without a grid score -1.
func (M *RotaMgr) Validate(r *Rotamer) (float64, error) {
	if r == nil {
		return -1, nil
	}
	g, ok := M.grids[r.residue.Name]
	if !ok {
		return -1, nil
	}
	score, err := g.Interpolate(r.Angles())
	if err != nil {
		return -1, errDecorate(err, "Validate")
	}
	return score, nil
}

//ValidateStructure scores every residue of a structure in order.
//Residues without rotamers score -1.
func (M *RotaMgr) ValidateStructure(s *refine.Structure) ([]float64, error) {
	residues := s.Residues()
	scores := make([]float64, len(residues))
	for i, res := range residues {
		r, err := M.RotamerFor(res)
		if err != nil {
			return nil, errDecorate(err, "ValidateStructure")
		}
		if scores[i], err = M.Validate(r); err != nil {
			return nil, errDecorate(err, "ValidateStructure")
		}
	}
	return scores, nil
}

//BinScore classifies a score under the rotamer cutoffs.
func (M *RotaMgr) BinScore(score float64) Bin { return M.cutoffs.Bin(score) }

//ColorByScores maps scores to display colors, one per entry.
func (M *RotaMgr) ColorByScores(scores []float64) []Color {
	out := make([]Color, len(scores))
	for i, s := range scores {
		out[i] = M.colors.Color(s, M.cutoffs)
	}
	return out
}
