/*
 * bonds.go, part of refine
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
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

//Bond is a covalent bond between two atoms of the same structure.
type Bond struct {
	At1, At2 *Atom
}

//Cross returns the atom at the other end of the bond from origin.
//It panics if origin is not part of the bond, as that has to be a
//programming error.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

//Length returns the current distance between the bonded atoms.
func (B *Bond) Length() float64 {
	return r3.Norm(r3.Sub(B.At2.Coord, B.At1.Coord))
}

//AddBond bonds a1 and a2 and returns the new bond. Both atoms must
//belong to S, be distinct and not already bonded.
func (S *Structure) AddBond(a1, a2 *Atom) (*Bond, error) {
	if a1 == a2 {
		return nil, NewDomainError("can't bond an atom to itself", "AddBond")
	}
	if a1.Structure() != S || a2.Structure() != S {
		return nil, NewDomainError("both atoms must belong to this structure", "AddBond")
	}
	if a1.BondedTo(a2) {
		return nil, NewDomainError(fmt.Sprintf("atoms %s and %s are already bonded", a1.Name, a2.Name), "AddBond")
	}
	b := &Bond{At1: a1, At2: a2}
	a1.bonds = append(a1.bonds, b)
	a2.bonds = append(a2.bonds, b)
	return b, nil
}

//AssignBonds assigns bonds to the whole structure based on a simple
//distance criterion, similar to that described in
//DOI:10.1186/1758-2946-3-33. It is meant for building test fixtures
//and for host adapters that receive coordinates without connectivity;
//it might get slow for very large systems.
func (S *Structure) AssignBonds() error {
	ats := S.Atoms()
	for i := 0; i < len(ats); i++ {
		at1 := ats[i]
		cov1 := symbolCovrad[at1.Element]
		if cov1 == 0 {
			return NewConfigError(fmt.Sprintf("no covalent radius known for element %q", at1.Element), "AssignBonds")
		}
		for j := i + 1; j < len(ats); j++ {
			at2 := ats[j]
			cov2 := symbolCovrad[at2.Element]
			if cov2 == 0 {
				return NewConfigError(fmt.Sprintf("no covalent radius known for element %q", at2.Element), "AssignBonds")
			}
			d := r3.Norm(r3.Sub(at2.Coord, at1.Coord))
			if d > tooclose && d <= cov1+cov2+bondtol {
				if _, err := S.AddBond(at1, at2); err != nil {
					return errDecorate(err, "AssignBonds")
				}
			}
		}
	}
	return nil
}
