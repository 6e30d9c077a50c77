/*
 * interfaces.go, part of mdconv.
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

package mdconv

import v3 "github.com/mdconv/mdconv/v3"

// Traj is an interface for any trajectory that can be read one frame at a time.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//reads the next frame into output, or discards it if output is nil.
	//it can also fill the (optional) box with the box vectors, if present in the frame.
	Next(output *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame
	Len() int
}

// Boxer is implemented by trajectories that know whether their frames carry
// a box.
type Boxer interface {
	HasBox() bool
}

// FrameWriter is an interface for trajectories that can be written one frame at a time.
type FrameWriter interface {
	//writes coords as the next frame. box, if given, is written as the box of the frame.
	WNext(coords *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame
	Len() int
}

//Errors

// Error is the interface for errors that all packages in this module implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds the caller to the error and returns the whole list. An empty string only returns the list.
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
