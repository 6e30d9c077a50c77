/*
 * doc.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
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

/*
Package gro reads, edits and writes Gromacs GRO files, including
multi-frame GRO trajectories.

Each frame of a GRO file has a title line, a line with the number of atoms,
one fixed-column line per atom and a box line:

	Test system
	2
	    1ALA      N    1   1.000   2.000   3.000
	    1ALA      C    2   1.500   2.500   3.500
	  10.00000  10.00000  10.00000

Atom lines hold, in order, the residue number (5 columns), residue name (5),
atom name (5), atom number (5) and the x, y, z coordinates in nm (8 columns,
3 decimals each). They may also have the 3 velocity components in nm/ps
(8 columns, 4 decimals each), in which case every atom of the frame has them.
The box line has 3 values for rectangular boxes or 9 for triclinic ones.

A Trajectory keeps all the frames in memory. Single columns can be read and
overwritten through Get and Set, and new frames can be derived from the first
one with AddFrame, which is how coordinates decoded from other trajectory
formats are turned into a GRO trajectory. A Trajectory is not safe for
concurrent use.
*/
package gro
