/*
 * conversion.go, part of mdconv.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	A2nm = 0.1 //Angstrom to nanometer. AMBER uses the former, GROMACS the latter.
	Nm2A = 10
)

//Precision of the GRO format
const (
	CoordDecimals = 3
	BoxDecimals   = 5
)
