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
Package v3 implements a Matrix type representing a row-major Nx3 matrix.

A v3.Matrix holds the cartesian coordinates (or velocities) of a set of atoms,
one atom per row. It is a thin wrapper over gonum's mat.Dense, so every gonum
function that takes a mat.Matrix can be used on it, with a few helpers that
trajectory readers and writers need: row access as [3]float64, conversion from
and to slices of triples, and fixed-decimal rounding.
*/
package v3
