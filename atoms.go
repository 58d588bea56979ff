/*
 * atoms.go, part of refine
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

import (
	"gonum.org/v1/gonum/spatial/r3"
)

//Atom is a single atom in a Structure. The host application mutates
//coordinates and visibility at will between calls into this library;
//nothing here caches either.
type Atom struct {
	Name    string
	Element string
	Coord   r3.Vec
	Visible bool
	residue *Residue
	bonds   []*Bond
}

//Residue returns the residue the atom belongs to.
func (A *Atom) Residue() *Residue {
	return A.residue
}

//Structure returns the structure the atom belongs to.
func (A *Atom) Structure() *Structure {
	if A.residue == nil {
		return nil
	}
	return A.residue.structure
}

//Bonds returns the bonds the atom takes part in.
func (A *Atom) Bonds() []*Bond {
	return A.bonds
}

//Neighbors returns the atoms directly bonded to A.
func (A *Atom) Neighbors() []*Atom {
	n := make([]*Atom, 0, len(A.bonds))
	for _, b := range A.bonds {
		n = append(n, b.Cross(A))
	}
	return n
}

//BondedTo reports whether A and at share a bond.
func (A *Atom) BondedTo(at *Atom) bool {
	for _, b := range A.bonds {
		if b.Cross(A) == at {
			return true
		}
	}
	return false
}

//IsHydrogen reports whether the atom is a hydrogen.
func (A *Atom) IsHydrogen() bool {
	return A.Element == "H"
}

//Residue is a named group of atoms within a Structure. Number and
//Chain follow the usual PDB conventions.
type Residue struct {
	Name      string
	Number    int
	Chain     string
	atoms     []*Atom
	structure *Structure
}

//NewAtom creates an atom in the residue and returns it. Atoms start
//visible.
func (R *Residue) NewAtom(name, element string, coord r3.Vec) *Atom {
	at := &Atom{Name: name, Element: element, Coord: coord, Visible: true, residue: R}
	R.atoms = append(R.atoms, at)
	return at
}

//Atoms returns the atoms of the residue.
func (R *Residue) Atoms() []*Atom {
	return R.atoms
}

//Len returns the number of atoms in the residue.
func (R *Residue) Len() int {
	return len(R.atoms)
}

//Atom returns the first atom in the residue with the given name, or
//nil if there is none.
func (R *Residue) Atom(name string) *Atom {
	for _, at := range R.atoms {
		if at.Name == name {
			return at
		}
	}
	return nil
}

//UniqueAtom returns the atom with the given name if exactly one atom
//in the residue carries it, and nil otherwise.
func (R *Residue) UniqueAtom(name string) *Atom {
	var found *Atom
	for _, at := range R.atoms {
		if at.Name == name {
			if found != nil {
				return nil
			}
			found = at
		}
	}
	return found
}

//Structure returns the structure the residue belongs to.
func (R *Residue) Structure() *Structure {
	return R.structure
}

//BondedNeighbors returns the residues connected to R by at least one
//inter-residue bond, in no particular order.
func (R *Residue) BondedNeighbors() []*Residue {
	seen := make(map[*Residue]bool)
	neighbors := make([]*Residue, 0, 2)
	for _, at := range R.atoms {
		for _, b := range at.bonds {
			other := b.Cross(at).residue
			if other != R && !seen[other] {
				seen[other] = true
				neighbors = append(neighbors, other)
			}
		}
	}
	return neighbors
}

//Structure owns a graph of residues and atoms. It is the only type
//in this package that mutates topology, and every mutation that
//destroys atoms or residues is fanned out to the registered
//DestructionObservers so managers can purge stale references.
type Structure struct {
	Name      string
	residues  []*Residue
	observers []DestructionObserver
}

//NewStructure returns an empty structure.
func NewStructure(name string) *Structure {
	return &Structure{Name: name}
}

//NewResidue creates a residue in the structure and returns it.
func (S *Structure) NewResidue(name, chain string, number int) *Residue {
	r := &Residue{Name: name, Number: number, Chain: chain, structure: S}
	S.residues = append(S.residues, r)
	return r
}

//Residues returns the residues of the structure.
func (S *Structure) Residues() []*Residue {
	return S.residues
}

//Atoms returns all atoms of the structure, residue by residue.
func (S *Structure) Atoms() []*Atom {
	ats := make([]*Atom, 0, 32)
	for _, r := range S.residues {
		ats = append(ats, r.atoms...)
	}
	return ats
}

//Len returns the total number of atoms in the structure.
func (S *Structure) Len() int {
	n := 0
	for _, r := range S.residues {
		n += len(r.atoms)
	}
	return n
}

//DestructionObserver is notified after atoms or residues have been
//destroyed. Implementations must treat every reference they hold as
//potentially contained in the destroyed set and purge accordingly;
//this callback is the only mechanism preventing dangling references.
type DestructionObserver interface {
	DestructorsDone(destroyed *Destroyed)
}

//Destroyed is the set of identities removed by one destruction batch.
type Destroyed struct {
	atoms    map[*Atom]bool
	residues map[*Residue]bool
}

func newDestroyed() *Destroyed {
	return &Destroyed{atoms: make(map[*Atom]bool), residues: make(map[*Residue]bool)}
}

//HasAtom reports whether the atom was destroyed in this batch.
func (D *Destroyed) HasAtom(at *Atom) bool {
	return D.atoms[at]
}

//HasResidue reports whether the residue was destroyed in this batch.
func (D *Destroyed) HasResidue(r *Residue) bool {
	return D.residues[r]
}

//NumAtoms returns the number of atoms destroyed in this batch.
func (D *Destroyed) NumAtoms() int {
	return len(D.atoms)
}

//AddObserver subscribes o to destruction notifications.
func (S *Structure) AddObserver(o DestructionObserver) {
	S.observers = append(S.observers, o)
}

//RemoveObserver unsubscribes o.
func (S *Structure) RemoveObserver(o DestructionObserver) {
	for i, obs := range S.observers {
		if obs == o {
			S.observers = append(S.observers[:i], S.observers[i+1:]...)
			return
		}
	}
}

//DeleteAtoms destroys the given atoms, dropping their bonds from the
//surviving partners. A residue left without atoms is destroyed with
//them. Observers are notified once, after all removals are done.
func (S *Structure) DeleteAtoms(atoms ...*Atom) {
	d := newDestroyed()
	for _, at := range atoms {
		S.deleteAtom(at, d)
	}
	S.sweepEmptyResidues(d)
	S.notify(d)
}

//DeleteResidues destroys the given residues and all their atoms.
func (S *Structure) DeleteResidues(residues ...*Residue) {
	d := newDestroyed()
	for _, r := range residues {
		for _, at := range append([]*Atom{}, r.atoms...) {
			S.deleteAtom(at, d)
		}
		d.residues[r] = true
	}
	S.sweepEmptyResidues(d)
	S.notify(d)
}

func (S *Structure) deleteAtom(at *Atom, d *Destroyed) {
	if d.atoms[at] {
		return
	}
	d.atoms[at] = true
	for _, b := range at.bonds {
		other := b.Cross(at)
		for i, ob := range other.bonds {
			if ob == b {
				other.bonds = append(other.bonds[:i], other.bonds[i+1:]...)
				break
			}
		}
	}
	at.bonds = nil
	r := at.residue
	for i, a := range r.atoms {
		if a == at {
			r.atoms = append(r.atoms[:i], r.atoms[i+1:]...)
			break
		}
	}
}

func (S *Structure) sweepEmptyResidues(d *Destroyed) {
	kept := S.residues[:0]
	for _, r := range S.residues {
		if len(r.atoms) == 0 {
			d.residues[r] = true
			continue
		}
		kept = append(kept, r)
	}
	S.residues = kept
}

func (S *Structure) notify(d *Destroyed) {
	if len(d.atoms) == 0 && len(d.residues) == 0 {
		return
	}
	//observers may unsubscribe during the callback
	for _, o := range append([]DestructionObserver{}, S.observers...) {
		o.DestructorsDone(d)
	}
}
