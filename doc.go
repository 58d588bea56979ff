/*
 * doc.go, part of refine
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

//Package refine provides the live-geometry core of an interactive
//molecular structure refinement tool: dihedral angles, chiral centers
//and their managers over a mutable atomic model, plus the change
//tracking that keeps an external simulation and UI layer in sync.
//Scoring against reference distributions lives in the validation
//subpackage, biasing restraints in the restraints subpackage, and the
//N-dimensional grid interpolation they rely on in interp.
//
//The atomic model here is deliberately minimal. The host application
//owns the structure and may delete atoms or residues at any time;
//everything in this package reads geometry and identity only, and
//reacts to deletions through the DestructionObserver callback rather
//than assuming references stay valid between calls.
package refine
