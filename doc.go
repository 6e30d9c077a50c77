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
Package mdconv moves molecular dynamics trajectories between the GROMACS
GRO format, AMBER trajectories and CHARMM/NAMD DCD trajectories.

The GRO format itself is handled by the gro package, the ASCII AMBER
trajectories by traj/amber and the DCD files by traj/dcd. This package
provides the interfaces all of them meet (Traj, FrameWriter and the error interfaces), the unit
conversion constants, and the Ingest and Export functions that copy frames
from any Traj into a gro.Trajectory, and from a gro.Trajectory into any
FrameWriter.

A typical conversion from AMBER to GRO reads a single-frame GRO file to
use as template, and fills it with the frames of the AMBER trajectory:

	tmpl, err := gro.ReadFile("system.gro")
	//...
	natoms, err := tmpl.NAtoms(0)
	//...
	crd, err := amber.New("md.mdcrd", natoms, true)
	//...
	n, err := mdconv.Ingest(tmpl, crd, mdconv.A2nm, mdconv.FrameRange{})
	//...
	err = tmpl.WriteFile("md.gro")

The command mdconv, in cmd/mdconv, does this and the opposite conversion
from the command line.
*/
package mdconv
