package restraints

import (
	"math"
	"testing"

	"github.com/kaldera-bio/refine"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDistanceRestraintLifecycle(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	o := res.UniqueAtom("O")
	cx := res.UniqueAtom("CX")
	r, err := M.GetRestraint(o, cx, true)
	if err != nil {
		Te.Fatal(err)
	}
	if r.Enabled() || r.SpringConstant() != 0 || r.SimIndex() != -1 {
		Te.Errorf("fresh restraint has wrong defaults: %+v", r)
	}
	if math.Abs(r.Target()-r.Distance()) > 1e-12 {
		Te.Errorf("default target %v should match current distance %v", r.Target(), r.Distance())
	}
	//lookup is symmetric in the pair
	again, err := M.GetRestraint(cx, o, true)
	if err != nil || again != r {
		Te.Error("reversed pair should return the same restraint")
	}
	if M.NumRestraints() != 1 {
		Te.Errorf("got %d restraints, want 1", M.NumRestraints())
	}
	M.DeleteRestraints(r)
	if M.NumRestraints() != 0 || len(M.AtomRestraints(o)) != 0 {
		Te.Error("delete should clear both atom indices")
	}
}

func TestDistanceRestraintRejections(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	c := res.UniqueAtom("C")
	o := res.UniqueAtom("O")
	if _, err := M.GetRestraint(c, o, true); err == nil {
		Te.Error("bonded pair should not be restrainable")
	}
	if _, err := M.GetRestraint(c, c, true); err == nil {
		Te.Error("an atom cannot be restrained to itself")
	}
	cx := res.UniqueAtom("CX")
	if _, err := M.GetRestraint(c, cx, true); err != nil {
		Te.Fatal(err)
	}
	if r, err := M.GetRestraint(c, c, false); err == nil || r != nil {
		Te.Error("a self pair lookup must fail, not return the atom's existing restraint")
	}
	other := refine.NewStructure("other")
	oat := other.NewResidue("MOH", "A", 1).NewAtom("C", "C", r3.Vec{})
	if _, err := M.GetRestraint(c, oat, true); err == nil {
		Te.Error("pair spanning structures should not be restrainable")
	}
}

func TestDistanceTargetClamp(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	r, err := M.GetRestraint(res.UniqueAtom("O"), res.UniqueAtom("CX"), true)
	if err != nil {
		Te.Fatal(err)
	}
	r.SetTarget(0.01)
	if r.Target() != refine.MinDistanceRestraintTarget {
		Te.Errorf("tiny target should clamp to %v, got %v",
			refine.MinDistanceRestraintTarget, r.Target())
	}
	r.SetTarget(5.5)
	if r.Target() != 5.5 {
		Te.Errorf("ordinary target should stick, got %v", r.Target())
	}
}

//The display radius follows sqrt(k/kmax) across the allowed range.
func TestDistanceRadius(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	r, err := M.GetRestraint(res.UniqueAtom("O"), res.UniqueAtom("CX"), true)
	if err != nil {
		Te.Fatal(err)
	}
	r.SetSpringConstant(50)
	want := math.Sqrt(50/refine.MaxLinearSpringConstant)*
		(refine.LinearRestraintMaxRadius-refine.LinearRestraintMinRadius) +
		refine.LinearRestraintMinRadius
	if math.Abs(r.Radius()-want) > 1e-12 {
		Te.Errorf("radius at k=50: got %v, want %v", r.Radius(), want)
	}
}

//TargetTransform scales the cylinder along its axis by target over
//current distance.
func TestDistanceTargetTransform(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	o := res.UniqueAtom("O")
	cx := res.UniqueAtom("CX")
	r, err := M.GetRestraint(o, cx, true)
	if err != nil {
		Te.Fatal(err)
	}
	r.SetTarget(2 * r.Distance())
	bond := r.BondCylinderTransform()
	target := r.TargetTransform()
	//the axis column doubles, the translation stays at the midpoint
	for i := 0; i < 3; i++ {
		if math.Abs(target.At(i, 2)-2*bond.At(i, 2)) > 1e-9 {
			Te.Errorf("axis column row %d: got %v, want %v", i, target.At(i, 2), 2*bond.At(i, 2))
		}
		if math.Abs(target.At(i, 3)-bond.At(i, 3)) > 1e-9 {
			Te.Errorf("translation row %d changed: %v vs %v", i, target.At(i, 3), bond.At(i, 3))
		}
	}
}

func TestDistanceSimProtocol(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	o := res.UniqueAtom("O")
	cx := res.UniqueAtom("CX")
	h := res.UniqueAtom("H")
	r1, err := M.GetRestraint(o, cx, true)
	if err != nil {
		Te.Fatal(err)
	}
	r2, err := M.GetRestraint(o, h, true)
	if err != nil {
		Te.Fatal(err)
	}
	r1.SetEnabled(true)
	r1.SetSpringConstant(100)
	r1.SetTarget(3)
	bound := M.AssignSimIndices()
	if len(bound) != 1 || bound[0] != r1 || r1.SimIndex() != 0 {
		Te.Error("only the enabled restraint should bind")
	}
	if r2.SimIndex() != -1 {
		Te.Error("disabled restraint should stay unbound")
	}
	indices, targets, ks := M.ForceParams()
	if len(indices) != 1 || targets[0] != 3 || ks[0] != 100 {
		Te.Errorf("force params: got %v %v %v", indices, targets, ks)
	}
	M.ClearSimIndices()
	if r1.SimIndex() != -1 {
		Te.Error("teardown should reset the sim index")
	}
}

func TestDistanceDestructionPurge(Te *testing.T) {
	s := methanol()
	M := NewDistanceRestraintMgr(s, nil)
	res := s.Residues()[0]
	o := res.UniqueAtom("O")
	cx := res.UniqueAtom("CX")
	h := res.UniqueAtom("H")
	if _, err := M.GetRestraint(o, cx, true); err != nil {
		Te.Fatal(err)
	}
	if _, err := M.GetRestraint(o, h, true); err != nil {
		Te.Fatal(err)
	}
	if _, err := M.GetRestraint(cx, h, true); err != nil {
		Te.Fatal(err)
	}
	s.DeleteAtoms(o)
	if M.NumRestraints() != 1 {
		Te.Errorf("got %d restraints after destruction, want 1", M.NumRestraints())
	}
	if len(M.AtomRestraints(cx)) != 1 || len(M.AtomRestraints(h)) != 1 {
		Te.Error("the surviving restraint should keep both atom indices")
	}
}
