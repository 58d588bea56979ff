package refdata

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaldera-bio/refine"
	"gonum.org/v1/gonum/spatial/r3"
)

//tripeptide builds ALA-ALA-ALA with backbone atoms and bonds.
func tripeptide(Te *testing.T) *refine.Structure {
	s := refine.NewStructure("tripeptide")
	var prevC *refine.Atom
	for i := 0; i < 3; i++ {
		res := s.NewResidue("ALA", "A", i+1)
		x := float64(i) * 4
		n := res.NewAtom("N", "N", r3.Vec{X: x, Y: 0.3, Z: 0})
		ca := res.NewAtom("CA", "C", r3.Vec{X: x + 1.2, Y: 1.1, Z: 0.2})
		c := res.NewAtom("C", "C", r3.Vec{X: x + 2.5, Y: 0.4, Z: -0.1})
		for _, pair := range [][2]*refine.Atom{{n, ca}, {ca, c}} {
			if _, err := s.AddBond(pair[0], pair[1]); err != nil {
				Te.Fatal(err)
			}
		}
		if prevC != nil {
			if _, err := s.AddBond(prevC, n); err != nil {
				Te.Fatal(err)
			}
		}
		prevC = c
	}
	return s
}

//The built-in backbone table must resolve phi/psi/omega on a chain:
//six dihedrals on a tripeptide (no phi or omega for the first
//residue, no psi for the last).
func TestBackboneDefs(Te *testing.T) {
	s := tripeptide(Te)
	mgr := refine.NewProperDihedralMgr(nil)
	if err := AddBackboneDefs(mgr); err != nil {
		Te.Fatal(err)
	}
	n, err := mgr.FindDihedrals(s)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("backbone dihedrals found:", n)
	if n != 6 {
		Te.Errorf("got %d backbone dihedrals, want 6", n)
	}
	res := s.Residues()
	if d, _ := mgr.Get(res[0], "phi", false); d != nil {
		Te.Error("first residue should have no phi")
	}
	omega, _ := mgr.Get(res[1], "omega", false)
	if omega == nil {
		Te.Fatal("second residue should have an omega")
	}
	atoms := omega.Atoms()
	if atoms[0].Residue() != res[0] || atoms[1].Residue() != res[0] ||
		atoms[2].Residue() != res[1] || atoms[3].Residue() != res[1] {
		Te.Error("omega atoms assigned to the wrong residues")
	}
}

//Duplicate registration of the same table must fail like AddDef does.
func TestRegisterDuplicate(Te *testing.T) {
	mgr := refine.NewProperDihedralMgr(nil)
	if err := AddBackboneDefs(mgr); err != nil {
		Te.Fatal(err)
	}
	if err := AddBackboneDefs(mgr); err == nil {
		Te.Error("re-registering the backbone table should fail")
	}
}

//Grid tables survive a zstd round trip and rebuild into a working
//interpolator.
func TestGridRoundTripZstd(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "grids.json.zst")
	table := GridTable{
		"general": {
			Lengths: []int{2, 2},
			Mins:    []float64{-180, -180},
			Maxs:    []float64{180, 180},
			Data:    []float64{1, 2, 3, 4},
		},
	}
	w, err := Create(path)
	if err != nil {
		Te.Fatal(err)
	}
	if err := WriteTable(w, table); err != nil {
		Te.Fatal(err)
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	back, err := LoadGridsFile(path)
	if err != nil {
		Te.Fatal(err)
	}
	g, ok := back["general"]
	if !ok {
		Te.Fatal("grid lost in round trip")
	}
	R, err := g.Interpolator()
	if err != nil {
		Te.Fatal(err)
	}
	v, err := R.Interpolate([]float64{0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if v != 2.5 {
		Te.Errorf("center of 1,2,3,4 grid: got %v, want 2.5", v)
	}
}

//Dihedral tables parse from plain JSON bytes, external flags
//included.
func TestLoadDihedrals(Te *testing.T) {
	src := `{"PRO": {"omega": {"atoms": ["CA","C","N","CA"], "externals": [true,true,false,false]}}}`
	t, err := LoadDihedrals(strings.NewReader(src))
	if err != nil {
		Te.Fatal(err)
	}
	e, ok := t["PRO"]["omega"]
	if !ok || len(e.Atoms) != 4 || !e.Externals[0] || e.Externals[2] {
		Te.Errorf("parsed entry wrong: %+v", e)
	}
}
