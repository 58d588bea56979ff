/*
 * dihedral.go, part of refine
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

import "math"

//Dihedral is a geometric descriptor over four ordered, distinct
//atoms, the central pair defining the dihedral axis. In this generic
//base the atoms needn't be bonded to each other. The angle is always
//computed fresh from current coordinates; nothing is cached across
//geometry changes.
//
//Most dihedrals belong to a specific residue by convention; the
//residue reference here is a plain back-reference, not ownership.
type Dihedral struct {
	atoms          [4]*Atom
	name           string
	residue        *Residue
	target         float64 //NaN when not set
	springConstant float64
}

//NewDihedral builds a generic dihedral over the four given atoms.
//The atoms must be distinct and belong to the same structure. owner
//and name are optional.
func NewDihedral(a1, a2, a3, a4 *Atom, owner *Residue, name string) (*Dihedral, error) {
	d := &Dihedral{atoms: [4]*Atom{a1, a2, a3, a4}, name: name, residue: owner, target: math.NaN()}
	if err := d.check(); err != nil {
		return nil, err
	}
	return d, nil
}

func (D *Dihedral) check() error {
	for _, at := range D.atoms {
		if at == nil {
			return NewDomainError("all 4 atoms must be given", "NewDihedral")
		}
	}
	s := D.atoms[0].Structure()
	for i, at := range D.atoms {
		if at.Structure() != s {
			return NewDomainError("all atoms must be in the same structure", "NewDihedral")
		}
		for _, at2 := range D.atoms[i+1:] {
			if at == at2 {
				return NewDomainError("all atoms must be unique", "NewDihedral")
			}
		}
	}
	return nil
}

//Atoms returns the four atoms of the dihedral, in order.
func (D *Dihedral) Atoms() [4]*Atom {
	return D.atoms
}

//Structure returns the structure the dihedral's atoms belong to.
func (D *Dihedral) Structure() *Structure {
	return D.atoms[0].Structure()
}

//Angle returns the current dihedral angle in radians, in (-pi,pi].
func (D *Dihedral) Angle() float64 {
	return DihedralAngle(D.atoms[0].Coord, D.atoms[1].Coord, D.atoms[2].Coord, D.atoms[3].Coord)
}

//Name returns the name of the dihedral (e.g. phi, psi, omega, chi1...).
func (D *Dihedral) Name() string {
	return D.name
}

//SetName renames the dihedral.
func (D *Dihedral) SetName(name string) {
	D.name = name
}

//Residue returns the residue the dihedral is attached to, or nil.
func (D *Dihedral) Residue() *Residue {
	return D.residue
}

//SetResidue attaches the dihedral to a residue.
func (D *Dihedral) SetResidue(r *Residue) {
	D.residue = r
}

//Target returns the target angle, or NaN if none has been set.
func (D *Dihedral) Target() float64 {
	return D.target
}

//SetTarget sets the target angle, wrapping it into (-pi,pi].
func (D *Dihedral) SetTarget(val float64) {
	D.target = WrapToPi(val)
}

//SpringConstant returns the spring constant for restraining the
//dihedral towards its target, in kJ mol-1 rad-2.
func (D *Dihedral) SpringConstant() float64 {
	return D.springConstant
}

//SetSpringConstant sets the spring constant, clamped into
//[0, MaxRadialSpringConstant].
func (D *Dihedral) SetSpringConstant(k float64) {
	switch {
	case k < 0:
		D.springConstant = 0
	case k > MaxRadialSpringConstant:
		D.springConstant = MaxRadialSpringConstant
	default:
		D.springConstant = k
	}
}

//ProperDihedral is a dihedral whose atoms are bonded in strict order
//a1--a2--a3--a4, as in the backbone and sidechain torsions of a
//polymer.
type ProperDihedral struct {
	Dihedral
	bonds [3]*Bond
}

//NewProperDihedral builds a proper dihedral over four consecutively
//bonded atoms. It fails with a DomainError if any link of the chain
//is missing.
func NewProperDihedral(a1, a2, a3, a4 *Atom, owner *Residue, name string) (*ProperDihedral, error) {
	d, err := NewDihedral(a1, a2, a3, a4, owner, name)
	if err != nil {
		return nil, errDecorate(err, "NewProperDihedral")
	}
	pd := &ProperDihedral{Dihedral: *d}
	for i := 0; i < 3; i++ {
		var found *Bond
		for _, b := range pd.atoms[i].bonds {
			if b.Cross(pd.atoms[i]) == pd.atoms[i+1] {
				found = b
				break
			}
		}
		if found == nil {
			return nil, NewDomainError("atoms must be bonded a1--a2--a3--a4", "NewProperDihedral")
		}
		pd.bonds[i] = found
	}
	return pd, nil
}

//Bonds returns the three bonds of the chain, in order.
func (D *ProperDihedral) Bonds() [3]*Bond {
	return D.bonds
}

//AxialBond returns the central bond, around which the dihedral
//rotates.
func (D *ProperDihedral) AxialBond() *Bond {
	return D.bonds[1]
}

//CisTrans classification of a dihedral angle, used for peptide-bond
//omega dihedrals.
type CisTrans int

const (
	Cis CisTrans = iota
	Twisted
	Trans
)

func (c CisTrans) String() string {
	switch c {
	case Cis:
		return "cis"
	case Twisted:
		return "twisted"
	default:
		return "trans"
	}
}

//CisTrans classifies the current angle as cis, twisted or trans using
//the standard peptide-bond cutoffs.
func (D *Dihedral) CisTrans() CisTrans {
	a := math.Abs(D.Angle())
	switch {
	case a <= CisCutoff:
		return Cis
	case a < TwistedCutoff:
		return Twisted
	default:
		return Trans
	}
}
