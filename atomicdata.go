/*
 * atomicdata.go, part of refine
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

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//A map for assigning covalent radii to elements.
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J).
//Note that just common "bio-elements" are present.
var symbolCovrad = map[string]float64{
	"H":  0.4, // 0.31; H only ever has one bond, so a longer radius is harmless
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Zn": 1.22,
	"Fe": 1.52,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present.
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Zn": 65.38,
	"Fe": 55.84,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//Mass returns the atomic mass of the atom's element, or 0 if the
//element is not in the internal table.
func (A *Atom) Mass() float64 {
	return symbolMass[A.Element]
}
