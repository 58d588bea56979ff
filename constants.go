/*
 * constants.go, part of refine
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

//used to correct floating point errors. Everything equal or
//less than this is considered zero.
const appzero float64 = 1e-12

const twoPi = 2 * math.Pi

//Spring constants are in kJ mol-1 nm-2 (linear) or kJ mol-1 rad-2
//(radial), matching the convention of the simulation engines this
//core is meant to drive. Distances are in Angstroms.
const (
	//MaxLinearSpringConstant is the hard ceiling for position and
	//distance restraint spring constants.
	MaxLinearSpringConstant = 100000.0

	//MaxRadialSpringConstant is the hard ceiling for dihedral and
	//chiral restraint spring constants.
	MaxRadialSpringConstant = 10000.0

	//DefaultChiralSpringConstant is applied to newly created chiral
	//restraints.
	DefaultChiralSpringConstant = 1000.0

	//MinDistanceRestraintTarget is the floor for distance restraint
	//targets, in Angstroms. Targets below it make the underlying
	//harmonic term numerically nasty without being physically
	//meaningful.
	MinDistanceRestraintTarget = 1.0

	//LinearRestraintMinRadius and LinearRestraintMaxRadius bound the
	//radius of the cylinder primitive drawn for a linear restraint,
	//in Angstroms. The radius scales with the spring constant.
	LinearRestraintMinRadius = 0.025
	LinearRestraintMaxRadius = 0.3
)

//Omega dihedral classification cutoffs, in radians.
const (
	//CisCutoff is the largest absolute omega angle still considered
	//a cis peptide bond.
	CisCutoff = math.Pi / 6

	//TwistedCutoff is the smallest absolute omega angle still
	//considered trans. Between CisCutoff and TwistedCutoff the bond
	//is twisted.
	TwistedCutoff = math.Pi * 5 / 6
)
