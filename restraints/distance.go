package restraints

import (
	"fmt"
	"math"

	"github.com/kaldera-bio/refine"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//DistanceRestraint holds two atoms at a target separation with a
//harmonic spring. The pair must not be covalently bonded: bonded
//distances belong to the force field, not to the user.
type DistanceRestraint struct {
	simRestraint
	atoms   [2]*refine.Atom
	target  float64
	k       float64
	enabled bool
	mgr     *DistanceRestraintMgr
}

//Atoms returns the restrained pair.
func (D *DistanceRestraint) Atoms() [2]*refine.Atom { return D.atoms }

//Target returns the target separation in Angstroms.
func (D *DistanceRestraint) Target() float64 { return D.target }

//SetTarget sets the target separation, silently clamped up to
//MinDistanceRestraintTarget: near-zero targets make the simulation
//numerically unstable.
func (D *DistanceRestraint) SetTarget(target float64) {
	target = math.Max(target, refine.MinDistanceRestraintTarget)
	if D.target == target {
		return
	}
	D.target = target
	D.mgr.track(D, refine.ReasonTargetChanged)
}

//SpringConstant returns the spring constant in kJ mol-1 nm-2.
func (D *DistanceRestraint) SpringConstant() float64 { return D.k }

//SetSpringConstant sets the spring constant, silently clamped to
//[0, MaxLinearSpringConstant].
func (D *DistanceRestraint) SetSpringConstant(k float64) {
	k = math.Min(math.Max(k, 0), refine.MaxLinearSpringConstant)
	if D.k == k {
		return
	}
	D.k = k
	D.mgr.track(D, refine.ReasonSpringConstantChanged)
}

//Enabled reports whether the restraint currently applies.
func (D *DistanceRestraint) Enabled() bool { return D.enabled }

//SetEnabled switches the restraint on or off. Only real transitions
//are recorded as changes.
func (D *DistanceRestraint) SetEnabled(enabled bool) {
	if D.enabled == enabled {
		return
	}
	D.enabled = enabled
	D.mgr.track(D, refine.ReasonEnabledChanged|refine.ReasonDisplayChanged)
}

//Visible reports whether the restraint should be drawn: enabled and
//with both atoms visible.
func (D *DistanceRestraint) Visible() bool {
	return D.enabled && D.atoms[0].Visible && D.atoms[1].Visible
}

//Distance returns the current separation of the pair.
func (D *DistanceRestraint) Distance() float64 {
	return r3.Norm(r3.Sub(D.atoms[1].Coord, D.atoms[0].Coord))
}

//Radius returns the display radius of the restraint indicator. The
//square-root map keeps weak restraints distinguishable while strong
//ones converge to the maximum radius.
func (D *DistanceRestraint) Radius() float64 {
	return math.Sqrt(D.k/refine.MaxLinearSpringConstant)*
		(refine.LinearRestraintMaxRadius-refine.LinearRestraintMinRadius) +
		refine.LinearRestraintMinRadius
}

//BondCylinderTransform returns the transform placing a unit cylinder
//between the two atoms.
func (D *DistanceRestraint) BondCylinderTransform() *mat.Dense {
	return refine.BondCylinderTransform(D.atoms[0].Coord, D.atoms[1].Coord, D.Radius(), 1)
}

//TargetTransform is BondCylinderTransform additionally scaled along
//the cylinder axis by target/current distance, so the drawn cylinder
//shows where the restraint wants the pair to be.
func (D *DistanceRestraint) TargetTransform() *mat.Dense {
	dist := D.Distance()
	scale := 1.0
	if dist > 0 {
		scale = D.target / dist
	}
	return refine.BondCylinderTransform(D.atoms[0].Coord, D.atoms[1].Coord, D.Radius(), scale)
}

//DistanceRestraintMgr owns every distance restraint of one structure,
//at most one per unordered atom pair.
type DistanceRestraintMgr struct {
	structure *refine.Structure
	tracker   *refine.ChangeTracker
	byAtom    map[*refine.Atom][]*DistanceRestraint
	n         int
}

//NewDistanceRestraintMgr returns a manager bound to one structure.
//tracker may be nil.
func NewDistanceRestraintMgr(s *refine.Structure, tracker *refine.ChangeTracker) *DistanceRestraintMgr {
	m := &DistanceRestraintMgr{
		structure: s,
		tracker:   tracker,
		byAtom:    make(map[*refine.Atom][]*DistanceRestraint),
	}
	if tracker != nil {
		tracker.RegisterMgr(m, "DistanceRestraintMgr", "DistanceRestraints")
	}
	s.AddObserver(m)
	return m
}

//Structure returns the structure this manager is bound to.
func (M *DistanceRestraintMgr) Structure() *refine.Structure { return M.structure }

func (M *DistanceRestraintMgr) track(r *DistanceRestraint, reason refine.ChangeReason) {
	if M.tracker != nil {
		M.tracker.TrackChange(M, r, reason)
	}
}

//GetRestraint returns the restraint on an unordered atom pair,
//creating it if create is true. New restraints start disabled with
//zero spring constant and the current separation (at least the
//minimum target) as target. Identical atoms, atoms of another
//structure and covalently bonded pairs are a DomainError.
func (M *DistanceRestraintMgr) GetRestraint(a1, a2 *refine.Atom, create bool) (*DistanceRestraint, error) {
	if a1 == a2 {
		return nil, refine.NewDomainError("cannot restrain an atom to itself", "GetRestraint")
	}
	for _, r := range M.byAtom[a1] {
		if r.atoms[0] == a2 || r.atoms[1] == a2 {
			return r, nil
		}
	}
	if !create {
		return nil, nil
	}
	if a1.Structure() != M.structure || a2.Structure() != M.structure {
		return nil, refine.NewDomainError("both atoms must belong to the manager's structure",
			"GetRestraint")
	}
	if a1.BondedTo(a2) {
		return nil, refine.NewDomainError(
			fmt.Sprintf("%s and %s are covalently bonded", a1.Name, a2.Name), "GetRestraint")
	}
	r := &DistanceRestraint{
		simRestraint: simRestraint{simIndex: simIndexUnset},
		atoms:        [2]*refine.Atom{a1, a2},
		mgr:          M,
	}
	r.target = math.Max(r.Distance(), refine.MinDistanceRestraintTarget)
	M.byAtom[a1] = append(M.byAtom[a1], r)
	M.byAtom[a2] = append(M.byAtom[a2], r)
	M.n++
	M.track(r, refine.ReasonCreated)
	return r, nil
}

//Restraints returns every live restraint.
func (M *DistanceRestraintMgr) Restraints() []*DistanceRestraint {
	out := make([]*DistanceRestraint, 0, M.n)
	seen := make(map[*DistanceRestraint]bool, M.n)
	for _, list := range M.byAtom {
		for _, r := range list {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

//AtomRestraints returns the restraints involving one atom.
func (M *DistanceRestraintMgr) AtomRestraints(at *refine.Atom) []*DistanceRestraint {
	return append([]*DistanceRestraint{}, M.byAtom[at]...)
}

//VisibleRestraints returns the restraints that should be drawn.
func (M *DistanceRestraintMgr) VisibleRestraints() []*DistanceRestraint {
	all := M.Restraints()
	out := all[:0]
	for _, r := range all {
		if r.Visible() {
			out = append(out, r)
		}
	}
	return out
}

//NumRestraints returns the number of live restraints.
func (M *DistanceRestraintMgr) NumRestraints() int { return M.n }

//DeleteRestraints removes the given restraints.
func (M *DistanceRestraintMgr) DeleteRestraints(list ...*DistanceRestraint) {
	for _, r := range list {
		M.remove(r)
	}
}

func (M *DistanceRestraintMgr) remove(r *DistanceRestraint) {
	found := false
	for _, at := range r.atoms {
		list := M.byAtom[at]
		for i, cand := range list {
			if cand == r {
				M.byAtom[at] = append(list[:i], list[i+1:]...)
				found = true
				break
			}
		}
		if len(M.byAtom[at]) == 0 {
			delete(M.byAtom, at)
		}
	}
	if found {
		M.n--
		M.track(r, refine.ReasonDeleted)
	}
}

//DestructorsDone purges restraints touching destroyed atoms. It
//implements refine.DestructionObserver.
func (M *DistanceRestraintMgr) DestructorsDone(destroyed *refine.Destroyed) {
	doomed := []*DistanceRestraint{}
	for at, list := range M.byAtom {
		if !destroyed.HasAtom(at) {
			continue
		}
		doomed = append(doomed, list...)
	}
	for _, r := range doomed {
		M.remove(r)
	}
}

//AssignSimIndices binds every enabled restraint to a contiguous slot
//in the simulation force arrays and returns them in slot order.
func (M *DistanceRestraintMgr) AssignSimIndices() []*DistanceRestraint {
	out := []*DistanceRestraint{}
	for _, r := range M.Restraints() {
		if !r.enabled {
			continue
		}
		r.simIndex = len(out)
		out = append(out, r)
		M.track(r, refine.ReasonSimIndexChanged)
	}
	return out
}

//ClearSimIndices resets every restraint to the unbound sentinel.
func (M *DistanceRestraintMgr) ClearSimIndices() {
	for _, r := range M.Restraints() {
		if r.simIndex != simIndexUnset {
			r.simIndex = simIndexUnset
			M.track(r, refine.ReasonSimIndexChanged)
		}
	}
}

//ForceParams snapshots the bound restraints as parallel arrays
//(slot, target, spring constant) for bulk upload to the simulation.
func (M *DistanceRestraintMgr) ForceParams() ([]int, []float64, []float64) {
	indices := []int{}
	targets := []float64{}
	ks := []float64{}
	for _, r := range M.Restraints() {
		if r.simIndex == simIndexUnset {
			continue
		}
		indices = append(indices, r.simIndex)
		targets = append(targets, r.target)
		ks = append(ks, r.k)
	}
	return indices, targets, ks
}
