package refine

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

//peptide builds a backbone-only chain of n alanines.
func peptide(Te *testing.T, n int) *Structure {
	s := NewStructure("peptide")
	var prevC *Atom
	for i := 0; i < n; i++ {
		res := s.NewResidue("ALA", "A", i+1)
		x := float64(i) * 4
		na := res.NewAtom("N", "N", r3.Vec{X: x, Y: 0.3})
		ca := res.NewAtom("CA", "C", r3.Vec{X: x + 1.2, Y: 1.1, Z: 0.2})
		c := res.NewAtom("C", "C", r3.Vec{X: x + 2.5, Y: 0.4, Z: -0.1})
		for _, pair := range [][2]*Atom{{na, ca}, {ca, c}} {
			if _, err := s.AddBond(pair[0], pair[1]); err != nil {
				Te.Fatal(err)
			}
		}
		if prevC != nil {
			if _, err := s.AddBond(prevC, na); err != nil {
				Te.Fatal(err)
			}
		}
		prevC = c
	}
	return s
}

func backboneDefs(Te *testing.T, M *DihedralMgr[*ProperDihedral]) {
	defs := map[string]DihedralDef{
		"phi":   {AtomNames: []string{"C", "N", "CA", "C"}, External: []bool{true, false, false, false}},
		"psi":   {AtomNames: []string{"N", "CA", "C", "N"}, External: []bool{false, false, false, true}},
		"omega": {AtomNames: []string{"CA", "C", "N", "CA"}, External: []bool{true, true, false, false}},
	}
	for name, def := range defs {
		if err := M.AddDef("ALA", name, def); err != nil {
			Te.Fatal(err)
		}
	}
}

func TestAddDef(Te *testing.T) {
	M := NewProperDihedralMgr(nil)
	def := DihedralDef{AtomNames: []string{"N", "CA", "CB", "OG"}}
	if err := M.AddDef("SER", "chi1", def); err != nil {
		Te.Fatal(err)
	}
	if err := M.AddDef("SER", "chi1", def); err == nil {
		Te.Error("duplicate definition should be rejected")
	}
	if err := M.AddDef("SER", "bad", DihedralDef{AtomNames: []string{"N", "CA"}}); err == nil {
		Te.Error("short atom list should be rejected")
	}
	if got, ok := M.Def("SER", "chi1"); !ok || got.AtomNames[3] != "OG" {
		Te.Error("stored definition lost")
	}
}

func TestNewDescriptorResolution(Te *testing.T) {
	s := peptide(Te, 3)
	M := NewProperDihedralMgr(nil)
	backboneDefs(Te, M)
	res := s.Residues()
	//omega spans two residues through its external atoms
	omega, err := M.NewDescriptor(res[1], "omega")
	if err != nil {
		Te.Fatal(err)
	}
	if omega == nil {
		Te.Fatal("omega of the middle residue should resolve")
	}
	ats := omega.Atoms()
	if ats[0] != res[0].UniqueAtom("CA") || ats[1] != res[0].UniqueAtom("C") ||
		ats[2] != res[1].UniqueAtom("N") || ats[3] != res[1].UniqueAtom("CA") {
		Te.Error("omega atoms resolved to the wrong identities")
	}
	//terminal residues can't complete their spanning dihedrals
	if d, err := M.NewDescriptor(res[0], "phi"); err != nil || d != nil {
		Te.Error("unresolvable atoms should yield nil without error")
	}
	//unknown definitions are a configuration problem
	if _, err := M.NewDescriptor(res[0], "chi1"); err == nil {
		Te.Error("missing definition should be an error")
	}
}

func TestGetAndCaching(Te *testing.T) {
	s := peptide(Te, 3)
	M := NewProperDihedralMgr(nil)
	backboneDefs(Te, M)
	res := s.Residues()[1]
	if d, err := M.Get(res, "psi", false); err != nil || d != nil {
		Te.Error("lookup without create should be nil, nil")
	}
	d1, err := M.Get(res, "psi", true)
	if err != nil || d1 == nil {
		Te.Fatalf("create failed: %v", err)
	}
	d2, err := M.Get(res, "psi", true)
	if err != nil || d2 != d1 {
		Te.Error("repeated Get should return the cached instance")
	}
	if M.NumMapped() != 1 {
		Te.Errorf("mapped count: got %d, want 1", M.NumMapped())
	}
	//deleting and recreating yields a fresh instance
	M.Delete([]*ProperDihedral{d1})
	if M.NumMapped() != 0 {
		Te.Error("delete should unmap the descriptor")
	}
	d3, err := M.Get(res, "psi", true)
	if err != nil || d3 == nil || d3 == d1 {
		Te.Error("recreation should build a new instance")
	}
}

func TestFindDihedrals(Te *testing.T) {
	s := peptide(Te, 3)
	M := NewProperDihedralMgr(nil)
	backboneDefs(Te, M)
	n, err := M.FindDihedrals(s)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("dihedrals found:", n)
	if n != 6 || M.NumMapped() != 6 {
		Te.Errorf("got %d dihedrals on a tripeptide, want 6", n)
	}
}

//Destroying an atom purges exactly the descriptors that use it.
func TestDestructionPurge(Te *testing.T) {
	s := peptide(Te, 3)
	tracker := NewChangeTracker()
	M := NewProperDihedralMgr(tracker)
	backboneDefs(Te, M)
	s.AddObserver(M)
	if _, err := M.FindDihedrals(s); err != nil {
		Te.Fatal(err)
	}
	tracker.Clear()
	ca2 := s.Residues()[1].UniqueAtom("CA")
	hit := len(M.ForAtom(ca2))
	if hit != 4 {
		Te.Fatalf("CA of the middle residue should sit in 4 dihedrals, got %d", hit)
	}
	s.DeleteAtoms(ca2)
	if M.NumMapped() != 2 {
		Te.Errorf("mapped count after purge: got %d, want 2", M.NumMapped())
	}
	if len(M.ForAtom(ca2)) != 0 {
		Te.Error("reverse index should forget the destroyed atom")
	}
	deleted := 0
	for _, reason := range tracker.ChangesFor(M) {
		if reason&ReasonDeleted != 0 {
			deleted++
		}
	}
	if deleted != hit {
		Te.Errorf("tracked %d deletions, want %d", deleted, hit)
	}
}

func TestChiralMgr(Te *testing.T) {
	s := NewStructure("chiral")
	res := s.NewResidue("ALA", "A", 1)
	center := res.NewAtom("CA", "C", r3.Vec{})
	subs := []*Atom{
		res.NewAtom("N", "N", r3.Vec{X: 0, Y: 1}),
		res.NewAtom("C", "C", r3.Vec{X: 1}),
		res.NewAtom("CB", "C", r3.Vec{X: 1, Z: 1}),
	}
	for _, sub := range subs {
		if _, err := s.AddBond(center, sub); err != nil {
			Te.Fatal(err)
		}
	}
	M := NewChiralMgr(nil)
	err := M.AddDef("ALA", "CA", DihedralDef{
		AtomNames: []string{"CA", "N", "C", "CB"},
		Expected:  0.55,
	})
	if err != nil {
		Te.Fatal(err)
	}
	c, err := M.Get(res, "CA", true)
	if err != nil || c == nil {
		Te.Fatalf("chiral creation failed: %v", err)
	}
	if c.Name() != "CA" || c.Residue() != res {
		Te.Error("manager should stamp name and residue")
	}
	if c.ExpectedAngle() != 0.55 || c.Center() != center {
		Te.Error("definition data lost on the instance")
	}
	if c.SpringConstant() != DefaultChiralSpringConstant {
		Te.Errorf("chiral spring constant: got %v", c.SpringConstant())
	}
}

//Creation events land in the change tracker under the manager's
//registered identity.
func TestMgrChangeTracking(Te *testing.T) {
	s := peptide(Te, 3)
	tracker := NewChangeTracker()
	M := NewProperDihedralMgr(tracker)
	backboneDefs(Te, M)
	if _, err := M.FindDihedrals(s); err != nil {
		Te.Fatal(err)
	}
	var mine *MgrChanges
	for _, mc := range tracker.Changes() {
		if mc.Name == "ProperDihedralMgr" {
			mine = &mc
			break
		}
	}
	if mine == nil {
		Te.Fatal("no changes recorded for the dihedral manager")
	}
	if mine.ManagedClass != "ProperDihedrals" || len(mine.Objects) != 6 {
		Te.Errorf("change batch wrong: class %s, %d objects", mine.ManagedClass, len(mine.Objects))
	}
	for _, reason := range mine.Objects {
		if reason&ReasonCreated == 0 {
			Te.Error("every object should carry the created reason")
		}
	}
	tracker.Clear()
	if len(tracker.Changes()) != 0 {
		Te.Error("clear should drain the tracker")
	}
}
