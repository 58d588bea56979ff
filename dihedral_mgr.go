/*
 * dihedral_mgr.go, part of refine
 *
 * Copyright 2024 The refine developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package refine

import "fmt"

//Descriptor is the capability interface a geometric descriptor needs
//to be owned by a DihedralMgr.
type Descriptor interface {
	comparable
	Atoms() [4]*Atom
	Residue() *Residue
	Name() string
}

//DihedralDef is the declarative definition of a named descriptor for
//a residue type: the ordered atom names and, per atom, whether it may
//belong to a bonded neighbor residue instead of the residue itself
//(backbone dihedrals span residue boundaries). Expected carries the
//reference improper angle for chiral definitions and is ignored for
//proper dihedrals.
type DihedralDef struct {
	AtomNames []string
	External  []bool
	Expected  float64
}

//DihedralMgr owns every live descriptor of one concrete type for a
//session: it maps (residue, name) to at most one instance, keeps a
//reverse index from each constituent atom to the descriptors using
//it, and purges both on external destruction notifications. It is
//instantiated as NewProperDihedralMgr or NewChiralMgr.
type DihedralMgr[D Descriptor] struct {
	tracker   *ChangeTracker
	defs      map[string]map[string]*DihedralDef
	byResidue map[*Residue]map[string]D
	byAtom    map[*Atom]map[D]bool
	build     func(atoms [4]*Atom, def *DihedralDef, res *Residue, name string) (D, error)
}

func newDihedralMgr[D Descriptor](tracker *ChangeTracker, name, managedClass string,
	build func(atoms [4]*Atom, def *DihedralDef, res *Residue, name string) (D, error)) *DihedralMgr[D] {
	m := &DihedralMgr[D]{
		tracker:   tracker,
		defs:      make(map[string]map[string]*DihedralDef),
		byResidue: make(map[*Residue]map[string]D),
		byAtom:    make(map[*Atom]map[D]bool),
		build:     build,
	}
	if tracker != nil {
		tracker.RegisterMgr(m, name, managedClass)
	}
	return m
}

//NewProperDihedralMgr returns a manager for proper dihedrals (phi,
//psi, omega, chi1...). tracker may be nil if no change tracking is
//wanted.
func NewProperDihedralMgr(tracker *ChangeTracker) *DihedralMgr[*ProperDihedral] {
	return newDihedralMgr[*ProperDihedral](tracker, "ProperDihedralMgr", "ProperDihedrals",
		func(atoms [4]*Atom, def *DihedralDef, res *Residue, name string) (*ProperDihedral, error) {
			return NewProperDihedral(atoms[0], atoms[1], atoms[2], atoms[3], res, name)
		})
}

//NewChiralMgr returns a manager for chiral centers. The first atom
//name of each definition is the center, the remaining three the
//substituents, and Expected the reference improper angle.
func NewChiralMgr(tracker *ChangeTracker) *DihedralMgr[*ChiralCenter] {
	return newDihedralMgr[*ChiralCenter](tracker, "ChiralMgr", "ChiralCenters",
		func(atoms [4]*Atom, def *DihedralDef, res *Residue, name string) (*ChiralCenter, error) {
			c, err := NewChiralCenter(atoms[0], atoms[1], atoms[2], atoms[3], def.Expected)
			if err != nil {
				return nil, err
			}
			c.SetName(name)
			c.SetResidue(res)
			return c, nil
		})
}

//AddDef registers the definition of the descriptor dname for the
//residue type rname. It fails with a ConfigError if a definition for
//that (type, name) pair already exists, or if the definition is
//malformed.
func (M *DihedralMgr[D]) AddDef(rname, dname string, def DihedralDef) error {
	if len(def.AtomNames) != 4 {
		return NewConfigError(fmt.Sprintf("definition %s/%s needs exactly 4 atom names, got %d",
			rname, dname, len(def.AtomNames)), "AddDef")
	}
	if def.External == nil {
		def.External = make([]bool, 4)
	}
	if len(def.External) != 4 {
		return NewConfigError(fmt.Sprintf("definition %s/%s: externality flags must match atom names",
			rname, dname), "AddDef")
	}
	dm := M.defs[rname]
	if dm == nil {
		dm = make(map[string]*DihedralDef)
		M.defs[rname] = dm
	}
	if _, ok := dm[dname]; ok {
		return NewConfigError(fmt.Sprintf("dihedral definition %s/%s already exists", rname, dname), "AddDef")
	}
	dm[dname] = &def
	return nil
}

//Def returns the stored definition for a (residue type, name) pair.
func (M *DihedralMgr[D]) Def(rname, dname string) (*DihedralDef, bool) {
	def, ok := M.defs[rname][dname]
	return def, ok
}

//DefNames returns the descriptor names defined for a residue type.
func (M *DihedralMgr[D]) DefNames(rname string) []string {
	names := make([]string, 0, len(M.defs[rname]))
	for n := range M.defs[rname] {
		names = append(names, n)
	}
	return names
}

//NewDescriptor resolves the definition dname for res's type, locates
//the constituent atoms, and constructs and registers the descriptor.
//A missing definition is a ConfigError. Atoms that cannot be resolved
//or are not uniquely determined yield a nil descriptor and no error:
//residues with missing atoms are a normal occurrence in a structure
//under construction and are simply skipped.
func (M *DihedralMgr[D]) NewDescriptor(res *Residue, dname string) (D, error) {
	var zero D
	def, ok := M.defs[res.Name][dname]
	if !ok {
		return zero, NewConfigError(fmt.Sprintf("no dihedral definition %s for residue type %s",
			dname, res.Name), "NewDescriptor")
	}
	atoms, ok := resolveAtoms(res, def)
	if !ok {
		return zero, nil
	}
	d, err := M.build(atoms, def, res, dname)
	if err != nil {
		return zero, errDecorate(err, "NewDescriptor")
	}
	M.register(res, dname, d)
	return d, nil
}

//resolveAtoms locates the atoms of a definition: internal atoms by
//unique name within the residue, external atoms by unique name among
//the atoms of bonded neighbor residues that are directly bonded to an
//already resolved atom. External resolution iterates until it stops
//making progress, so chains of external atoms (e.g. the two previous-
//residue atoms of omega) resolve in order.
func resolveAtoms(res *Residue, def *DihedralDef) ([4]*Atom, bool) {
	var atoms [4]*Atom
	for i, name := range def.AtomNames {
		if def.External[i] {
			continue
		}
		if atoms[i] = res.UniqueAtom(name); atoms[i] == nil {
			return atoms, false
		}
	}
	for progress := true; progress; {
		progress = false
		for i, name := range def.AtomNames {
			if !def.External[i] || atoms[i] != nil {
				continue
			}
			at := externalCandidate(res, atoms, name)
			if at != nil {
				atoms[i] = at
				progress = true
			}
		}
	}
	for _, at := range atoms {
		if at == nil {
			return atoms, false
		}
	}
	return atoms, true
}

//externalCandidate returns the unique atom outside res with the given
//name bonded to any already resolved atom, or nil.
func externalCandidate(res *Residue, resolved [4]*Atom, name string) *Atom {
	var found *Atom
	for _, at := range resolved {
		if at == nil {
			continue
		}
		for _, b := range at.bonds {
			cand := b.Cross(at)
			if cand.Name != name || cand.Residue() == res || cand == resolved[0] ||
				cand == resolved[1] || cand == resolved[2] || cand == resolved[3] {
				continue
			}
			if found != nil && found != cand {
				return nil //ambiguous
			}
			found = cand
		}
	}
	return found
}

func (M *DihedralMgr[D]) register(res *Residue, dname string, d D) {
	dm := M.byResidue[res]
	if dm == nil {
		dm = make(map[string]D)
		M.byResidue[res] = dm
	}
	dm[dname] = d
	for _, at := range d.Atoms() {
		am := M.byAtom[at]
		if am == nil {
			am = make(map[D]bool)
			M.byAtom[at] = am
		}
		am[d] = true
	}
	if M.tracker != nil {
		M.tracker.TrackChange(M, d, ReasonCreated)
	}
}

//Get returns the cached descriptor for (res, name) if there is one.
//If there is none and create is true it behaves as NewDescriptor;
//otherwise it returns nil without error.
func (M *DihedralMgr[D]) Get(res *Residue, dname string, create bool) (D, error) {
	if d, ok := M.byResidue[res][dname]; ok {
		return d, nil
	}
	var zero D
	if !create {
		return zero, nil
	}
	d, err := M.NewDescriptor(res, dname)
	if err != nil {
		return zero, errDecorate(err, "Get")
	}
	return d, nil
}

//FindDihedrals creates every descriptor defined for every residue of
//the structure, skipping residues whose atoms cannot be resolved. It
//returns the number of descriptors now mapped for s's residues.
func (M *DihedralMgr[D]) FindDihedrals(s *Structure) (int, error) {
	count := 0
	for _, res := range s.Residues() {
		for dname := range M.defs[res.Name] {
			if _, err := M.Get(res, dname, true); err != nil {
				return count, errDecorate(err, "FindDihedrals")
			}
		}
		count += len(M.byResidue[res])
	}
	return count, nil
}

//Delete removes the given descriptors from all indices and releases
//them.
func (M *DihedralMgr[D]) Delete(list []D) {
	for _, d := range list {
		M.unregister(d)
	}
}

func (M *DihedralMgr[D]) unregister(d D) {
	if dm, ok := M.byResidue[d.Residue()]; ok {
		if dm[d.Name()] == d {
			delete(dm, d.Name())
			if len(dm) == 0 {
				delete(M.byResidue, d.Residue())
			}
		}
	}
	for _, at := range d.Atoms() {
		if am, ok := M.byAtom[at]; ok {
			delete(am, d)
			if len(am) == 0 {
				delete(M.byAtom, at)
			}
		}
	}
	if M.tracker != nil {
		M.tracker.TrackChange(M, d, ReasonDeleted)
	}
}

//NumMapped returns the number of live descriptors in the manager.
func (M *DihedralMgr[D]) NumMapped() int {
	count := 0
	for _, dm := range M.byResidue {
		count += len(dm)
	}
	return count
}

//ForAtom returns the descriptors using the given atom.
func (M *DihedralMgr[D]) ForAtom(at *Atom) []D {
	out := make([]D, 0, len(M.byAtom[at]))
	for d := range M.byAtom[at] {
		out = append(out, d)
	}
	return out
}

//DestructorsDone purges every descriptor referencing a destroyed atom
//or owned by a destroyed residue. It implements DestructionObserver;
//subscribe the manager to each structure it tracks descriptors for.
func (M *DihedralMgr[D]) DestructorsDone(destroyed *Destroyed) {
	doomed := make(map[D]bool)
	for at := range destroyed.atoms {
		for d := range M.byAtom[at] {
			doomed[d] = true
		}
	}
	for res := range destroyed.residues {
		for _, d := range M.byResidue[res] {
			doomed[d] = true
		}
	}
	for d := range doomed {
		M.unregister(d)
	}
}
