package restraints

import (
	"fmt"
	"math"

	"github.com/kaldera-bio/refine"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//PositionRestraint pins one atom to a fixed point in space with a
//harmonic spring. A restraint exists for the lifetime of its atom but
//only exerts force while enabled with a positive spring constant.
type PositionRestraint struct {
	simRestraint
	atom    *refine.Atom
	target  r3.Vec
	k       float64
	enabled bool
	mgr     *PositionRestraintMgr
}

//Atom returns the restrained atom.
func (P *PositionRestraint) Atom() *refine.Atom { return P.atom }

//Target returns the anchor point.
func (P *PositionRestraint) Target() r3.Vec { return P.target }

//SetTarget moves the anchor point. No-op writes are not recorded.
func (P *PositionRestraint) SetTarget(target r3.Vec) {
	if P.target == target {
		return
	}
	P.target = target
	P.mgr.track(P, refine.ReasonTargetChanged)
}

//SpringConstant returns the spring constant in kJ mol-1 nm-2.
func (P *PositionRestraint) SpringConstant() float64 { return P.k }

//SetSpringConstant sets the spring constant, silently clamped to
//[0, MaxLinearSpringConstant].
func (P *PositionRestraint) SetSpringConstant(k float64) {
	k = math.Min(math.Max(k, 0), refine.MaxLinearSpringConstant)
	if P.k == k {
		return
	}
	P.k = k
	P.mgr.track(P, refine.ReasonSpringConstantChanged)
}

//Enabled reports whether the restraint currently applies.
func (P *PositionRestraint) Enabled() bool { return P.enabled }

//SetEnabled switches the restraint on or off. Only real transitions
//are recorded as changes.
func (P *PositionRestraint) SetEnabled(enabled bool) {
	if P.enabled == enabled {
		return
	}
	P.enabled = enabled
	P.mgr.track(P, refine.ReasonEnabledChanged|refine.ReasonDisplayChanged)
}

//Visible reports whether the restraint should be drawn: enabled and
//on a visible atom.
func (P *PositionRestraint) Visible() bool {
	return P.enabled && P.atom.Visible
}

//Offset returns the vector from the target to the atom's current
//position.
func (P *PositionRestraint) Offset() r3.Vec {
	return r3.Sub(P.atom.Coord, P.target)
}

//Radius returns the display radius of the restraint indicator, a
//linear map of the spring constant onto the allowed radius range.
func (P *PositionRestraint) Radius() float64 {
	return P.k/refine.MaxLinearSpringConstant*
		(refine.LinearRestraintMaxRadius-refine.LinearRestraintMinRadius) +
		refine.LinearRestraintMinRadius
}

//BondCylinderTransform returns the transform placing a unit cylinder
//between the atom and its target for drawing.
func (P *PositionRestraint) BondCylinderTransform() *mat.Dense {
	return refine.BondCylinderTransform(P.atom.Coord, P.target, P.Radius(), 1)
}

//PositionRestraintMgr owns every position restraint of one structure.
//It registers itself as a destruction observer of the structure, so
//restraints vanish with their atoms.
type PositionRestraintMgr struct {
	structure *refine.Structure
	tracker   *refine.ChangeTracker
	byAtom    map[*refine.Atom]*PositionRestraint
}

//NewPositionRestraintMgr returns a manager bound to one structure.
//tracker may be nil.
func NewPositionRestraintMgr(s *refine.Structure, tracker *refine.ChangeTracker) *PositionRestraintMgr {
	m := &PositionRestraintMgr{
		structure: s,
		tracker:   tracker,
		byAtom:    make(map[*refine.Atom]*PositionRestraint),
	}
	if tracker != nil {
		tracker.RegisterMgr(m, "PositionRestraintMgr", "PositionRestraints")
	}
	s.AddObserver(m)
	return m
}

//Structure returns the structure this manager is bound to.
func (M *PositionRestraintMgr) Structure() *refine.Structure { return M.structure }

func (M *PositionRestraintMgr) track(r *PositionRestraint, reason refine.ChangeReason) {
	if M.tracker != nil {
		M.tracker.TrackChange(M, r, reason)
	}
}

//GetRestraint returns the restraint on an atom, creating it if create
//is true. New restraints start disabled with zero spring constant and
//the atom's current position as target. Atoms of other structures and
//hydrogens are a DomainError; a missing restraint without create is
//nil without error.
func (M *PositionRestraintMgr) GetRestraint(at *refine.Atom, create bool) (*PositionRestraint, error) {
	if r, ok := M.byAtom[at]; ok {
		return r, nil
	}
	if !create {
		return nil, nil
	}
	if at.Structure() != M.structure {
		return nil, refine.NewDomainError(
			fmt.Sprintf("atom %s belongs to another structure", at.Name), "GetRestraint")
	}
	if at.IsHydrogen() {
		return nil, refine.NewDomainError("hydrogens cannot be position-restrained", "GetRestraint")
	}
	r := &PositionRestraint{
		simRestraint: simRestraint{simIndex: simIndexUnset},
		atom:         at,
		target:       at.Coord,
		mgr:          M,
	}
	M.byAtom[at] = r
	M.track(r, refine.ReasonCreated)
	return r, nil
}

//Restraints returns every live restraint.
func (M *PositionRestraintMgr) Restraints() []*PositionRestraint {
	out := make([]*PositionRestraint, 0, len(M.byAtom))
	for _, r := range M.byAtom {
		out = append(out, r)
	}
	return out
}

//VisibleRestraints returns the restraints that should be drawn.
func (M *PositionRestraintMgr) VisibleRestraints() []*PositionRestraint {
	out := make([]*PositionRestraint, 0, len(M.byAtom))
	for _, r := range M.byAtom {
		if r.Visible() {
			out = append(out, r)
		}
	}
	return out
}

//NumRestraints returns the number of live restraints.
func (M *PositionRestraintMgr) NumRestraints() int { return len(M.byAtom) }

//DeleteRestraints removes the given restraints.
func (M *PositionRestraintMgr) DeleteRestraints(list ...*PositionRestraint) {
	for _, r := range list {
		if M.byAtom[r.atom] != r {
			continue
		}
		delete(M.byAtom, r.atom)
		M.track(r, refine.ReasonDeleted)
	}
}

//DestructorsDone purges restraints on destroyed atoms. It implements
//refine.DestructionObserver.
func (M *PositionRestraintMgr) DestructorsDone(destroyed *refine.Destroyed) {
	for at, r := range M.byAtom {
		if destroyed.HasAtom(at) {
			delete(M.byAtom, at)
			M.track(r, refine.ReasonDeleted)
		}
	}
}

//AssignSimIndices binds every enabled restraint to a contiguous slot
//in the simulation force arrays and returns them in slot order. The
//driver mirrors the returned slice into its force when the simulation
//starts.
func (M *PositionRestraintMgr) AssignSimIndices() []*PositionRestraint {
	out := make([]*PositionRestraint, 0, len(M.byAtom))
	for _, r := range M.byAtom {
		if !r.enabled {
			continue
		}
		r.simIndex = len(out)
		out = append(out, r)
		M.track(r, refine.ReasonSimIndexChanged)
	}
	return out
}

//ClearSimIndices resets every restraint to the unbound sentinel, for
//simulation teardown.
func (M *PositionRestraintMgr) ClearSimIndices() {
	for _, r := range M.byAtom {
		if r.simIndex != simIndexUnset {
			r.simIndex = simIndexUnset
			M.track(r, refine.ReasonSimIndexChanged)
		}
	}
}

//ForceParams snapshots the bound restraints as parallel arrays
//(slot, target, spring constant) for bulk upload to the simulation.
func (M *PositionRestraintMgr) ForceParams() ([]int, []r3.Vec, []float64) {
	indices := make([]int, 0, len(M.byAtom))
	targets := make([]r3.Vec, 0, len(M.byAtom))
	ks := make([]float64, 0, len(M.byAtom))
	for _, r := range M.byAtom {
		if r.simIndex == simIndexUnset {
			continue
		}
		indices = append(indices, r.simIndex)
		targets = append(targets, r.target)
		ks = append(ks, r.k)
	}
	return indices, targets, ks
}
