//Package restraints manages user-defined harmonic restraints on an
//atomic structure: per-atom position restraints and interatomic
//distance restraints. Each manager owns every restraint of its kind
//for one structure, keeps at most one restraint per anchor, purges
//restraints whose atoms are destroyed, and mirrors its state into a
//running simulation through per-restraint simulation force indices.
package restraints

import "github.com/kaldera-bio/refine"

//simIndexUnset marks a restraint not currently bound to a simulation
//force entry.
const simIndexUnset = -1

//simRestraint carries the simulation binding shared by all restraint
//kinds. The index is assigned by the manager when a simulation
//starts and reset to the sentinel when it ends.
type simRestraint struct {
	simIndex int
}

//SimIndex returns the restraint's slot in the simulation force
//arrays, or -1 when no simulation is bound.
func (S *simRestraint) SimIndex() int { return S.simIndex }

func errDecorate(err error, caller string) error {
	if e, ok := err.(refine.Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}
