/*
 * chiral.go, part of refine
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

//ChiralCenter is an improper dihedral measuring the handedness of a
//tetrahedral center: the first atom is the center itself and the
//remaining three are substituents, each directly bonded to it. The
//sign of the improper angle distinguishes the two enantiomers; the
//expected angle records the correct handedness for the residue type.
type ChiralCenter struct {
	Dihedral
	expected float64
}

//NewChiralCenter builds a chiral center descriptor. Each substituent
//must be directly bonded to center, or a DomainError is returned. The
//descriptor is attached to the center atom's residue under the name
//"chiral".
func NewChiralCenter(center, s1, s2, s3 *Atom, expected float64) (*ChiralCenter, error) {
	if center == nil {
		return nil, NewDomainError("all 4 atoms must be given", "NewChiralCenter")
	}
	d, err := NewDihedral(center, s1, s2, s3, center.Residue(), "chiral")
	if err != nil {
		return nil, errDecorate(err, "NewChiralCenter")
	}
	for _, s := range []*Atom{s1, s2, s3} {
		if !s.BondedTo(center) {
			return nil, NewDomainError("all substituents must be bonded to the chiral center", "NewChiralCenter")
		}
	}
	c := &ChiralCenter{Dihedral: *d}
	c.expected = expected
	c.SetTarget(expected)
	c.SetSpringConstant(DefaultChiralSpringConstant)
	return c, nil
}

//Center returns the central atom.
func (C *ChiralCenter) Center() *Atom {
	return C.atoms[0]
}

//ExpectedAngle returns the improper angle the center should show for
//correct handedness.
func (C *ChiralCenter) ExpectedAngle() float64 {
	return C.expected
}

//Deviation returns the wrapped difference between the current and the
//expected angle. A deviation of magnitude near pi means the center is
//inverted.
func (C *ChiralCenter) Deviation() float64 {
	return WrapToPi(C.Angle() - C.expected)
}
