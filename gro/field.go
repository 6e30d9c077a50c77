package gro

import (
	"fmt"
	"strings"

	v3 "github.com/mdconv/mdconv/v3"
)

const nameWidth = 5

// Field is a column of the atom records of a frame.
type Field int

const (
	NoField Field = iota
	ResidueIndex
	ResidueName
	AtomName
	AtomIndex
	Coord
	CoordX
	CoordY
	CoordZ
	Vel
	VelX
	VelY
	VelZ
	All
)

var fieldNames = [...]string{
	NoField:      "",
	ResidueIndex: "residue_index",
	ResidueName:  "residue_name",
	AtomName:     "atom_name",
	AtomIndex:    "atom_index",
	Coord:        "coord",
	CoordX:       "coord_x",
	CoordY:       "coord_y",
	CoordZ:       "coord_z",
	Vel:          "vel",
	VelX:         "vel_x",
	VelY:         "vel_y",
	VelZ:         "vel_z",
	All:          "all",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the Field with the given name ("residue_index",
// "coord_x", "vel", ...). "*" is accepted as a synonym of "all".
func ParseField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "*" {
		return All, nil
	}
	for i, n := range fieldNames {
		if n != "" && n == s {
			return Field(i), nil
		}
	}
	return NoField, newError(ErrInvalidValue, -1, NoField, fmt.Sprintf("unknown field %q", s), "ParseField")
}

// IsVel returns whether the field needs velocities to be present.
func (f Field) IsVel() bool {
	return f == Vel || f == VelX || f == VelY || f == VelZ
}

// component returns the axis for the single-component fields.
func (f Field) component() int {
	switch f {
	case CoordX, VelX:
		return 0
	case CoordY, VelY:
		return 1
	case CoordZ, VelZ:
		return 2
	}
	return -1
}

// Column holds the values of one field for the atoms of a frame. Only the
// slice that corresponds to the field is used: Ints for ResidueIndex and
// AtomIndex, Strings for ResidueName and AtomName, Vecs for Coord and Vel,
// Floats for the single components, and Atoms (plus HasVel) for All.
type Column struct {
	Ints    []int
	Strings []string
	Floats  []float64
	Vecs    [][3]float64
	Atoms   []Atom
	HasVel  bool
}

// Len returns the number of values the column holds for the field f.
func (c Column) Len(f Field) int {
	switch f {
	case ResidueIndex, AtomIndex:
		return len(c.Ints)
	case ResidueName, AtomName:
		return len(c.Strings)
	case Coord, Vel:
		return len(c.Vecs)
	case CoordX, CoordY, CoordZ, VelX, VelY, VelZ:
		return len(c.Floats)
	case All:
		return len(c.Atoms)
	}
	return 0
}

func shapeError(frame int, f Field, want, got int, caller string) *Error {
	return newError(ErrShape, frame, f, fmt.Sprintf("%d values given for %d atoms", got, want), caller)
}

// Get returns the values of field f for the atoms of the ith frame. For
// ResidueIndex and ResidueName, if byResidue is true, only one value per
// residue is returned: a residue is a run of consecutive atoms with the
// same residue name and number. Velocity fields return an error if the
// frame has no velocities. The returned slices are copies.
func (T *Trajectory) Get(i int, f Field, byResidue bool) (Column, error) {
	var c Column
	F, err := T.frame(i, f, "Get")
	if err != nil {
		return c, err
	}
	if f.IsVel() && !F.HasVel {
		return c, newError(ErrMissingDimension, i, f, "frame has no velocities", "Get")
	}
	switch f {
	case ResidueIndex, ResidueName:
		for _, a := range residueStarts(F.Atoms, byResidue) {
			if f == ResidueIndex {
				c.Ints = append(c.Ints, a.ResID)
			} else {
				c.Strings = append(c.Strings, a.ResName)
			}
		}
	case AtomName:
		c.Strings = make([]string, len(F.Atoms))
		for k, a := range F.Atoms {
			c.Strings[k] = a.Name
		}
	case AtomIndex:
		c.Ints = make([]int, len(F.Atoms))
		for k, a := range F.Atoms {
			c.Ints[k] = a.ID
		}
	case Coord, Vel:
		c.Vecs = make([][3]float64, len(F.Atoms))
		for k, a := range F.Atoms {
			if f == Coord {
				c.Vecs[k] = a.Pos
			} else {
				c.Vecs[k] = a.Vel
			}
		}
	case CoordX, CoordY, CoordZ, VelX, VelY, VelZ:
		ax := f.component()
		c.Floats = make([]float64, len(F.Atoms))
		for k, a := range F.Atoms {
			if f.IsVel() {
				c.Floats[k] = a.Vel[ax]
			} else {
				c.Floats[k] = a.Pos[ax]
			}
		}
	case All:
		c.Atoms = append([]Atom(nil), F.Atoms...)
		c.HasVel = F.HasVel
	default:
		return c, newError(ErrInvalidValue, i, f, "unknown field", "Get")
	}
	return c, nil
}

// residueStarts returns the atoms that start a residue, or all the
// atoms if byResidue is false.
func residueStarts(atoms []Atom, byResidue bool) []Atom {
	if !byResidue {
		return atoms
	}
	var ret []Atom
	for k, a := range atoms {
		if k == 0 || a.ResID != atoms[k-1].ResID || a.ResName != atoms[k-1].ResName {
			ret = append(ret, a)
		}
	}
	return ret
}

// GetAll is like Get, for every frame of the trajectory.
func (T *Trajectory) GetAll(f Field, byResidue bool) ([]Column, error) {
	ret := make([]Column, 0, len(T.frames))
	for i := range T.frames {
		c, err := T.Get(i, f, byResidue)
		if err != nil {
			err.(*Error).Decorate("GetAll")
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, nil
}

// Set overwrites the field f of every atom of the ith frame with the
// values in c, which must have one value per atom. Names can't be wider
// than 5 characters, and indexes can't be negative. Setting Vel on a
// frame without velocities adds velocities to the frame, but setting a
// single velocity component on such frame is an error. Setting All
// replaces the atom records and the velocity flag of the frame. If an
// error is returned, the frame is not modified.
func (T *Trajectory) Set(i int, f Field, c Column) error {
	F, err := T.frame(i, f, "Set")
	if err != nil {
		return err
	}
	if f == NoField || f > All {
		return newError(ErrInvalidValue, i, f, "unknown field", "Set")
	}
	if l := c.Len(f); l != len(F.Atoms) {
		return shapeError(i, f, len(F.Atoms), l, "Set")
	}
	switch f {
	case VelX, VelY, VelZ:
		if !F.HasVel {
			return newError(ErrMissingDimension, i, f, "can't set one velocity component on a frame without velocities", "Set")
		}
	case ResidueName, AtomName:
		for k, s := range c.Strings {
			if len(s) > nameWidth {
				return newError(ErrInvalidValue, i, f, fmt.Sprintf("atom %d: %q is wider than %d columns", k, s, nameWidth), "Set")
			}
		}
	case ResidueIndex, AtomIndex:
		for k, v := range c.Ints {
			if v < 0 {
				return newError(ErrInvalidValue, i, f, fmt.Sprintf("atom %d: negative index %d", k, v), "Set")
			}
		}
	case All:
		tmp := &Frame{NAtoms: len(c.Atoms), Atoms: c.Atoms, HasVel: c.HasVel}
		if err := tmp.check(i, "Set"); err != nil {
			err.(*Error).Field = All
			return err
		}
	}
	//From here on, nothing can fail.
	for k := range F.Atoms {
		a := &F.Atoms[k]
		switch f {
		case ResidueIndex:
			a.ResID = c.Ints[k]
		case ResidueName:
			a.ResName = c.Strings[k]
		case AtomName:
			a.Name = c.Strings[k]
		case AtomIndex:
			a.ID = c.Ints[k]
		case Coord:
			a.Pos = c.Vecs[k]
		case Vel:
			a.Vel = c.Vecs[k]
		case CoordX, CoordY, CoordZ:
			a.Pos[f.component()] = c.Floats[k]
		case VelX, VelY, VelZ:
			a.Vel[f.component()] = c.Floats[k]
		case All:
			*a = c.Atoms[k]
		}
	}
	switch f {
	case Vel:
		F.HasVel = true
	case All:
		F.HasVel = c.HasVel
	}
	return nil
}

// Coords returns the positions of the atoms of the ith frame.
func (T *Trajectory) Coords(i int) ([][3]float64, error) {
	c, err := T.Get(i, Coord, false)
	return c.Vecs, err
}

// SetCoords overwrites the positions of the atoms of the ith frame.
func (T *Trajectory) SetCoords(i int, coords [][3]float64) error {
	return T.Set(i, Coord, Column{Vecs: coords})
}

// Velocities returns the velocities of the atoms of the ith frame, or
// an error if the frame has none.
func (T *Trajectory) Velocities(i int) ([][3]float64, error) {
	c, err := T.Get(i, Vel, false)
	return c.Vecs, err
}

// ResidueIDs returns the residue numbers of the ith frame, one per atom,
// or one per residue if byResidue is true.
func (T *Trajectory) ResidueIDs(i int, byResidue bool) ([]int, error) {
	c, err := T.Get(i, ResidueIndex, byResidue)
	return c.Ints, err
}

// ResidueNames is like ResidueIDs, for the raw residue names.
func (T *Trajectory) ResidueNames(i int, byResidue bool) ([]string, error) {
	c, err := T.Get(i, ResidueName, byResidue)
	return c.Strings, err
}

// AtomNames returns the raw atom names of the ith frame.
func (T *Trajectory) AtomNames(i int) ([]string, error) {
	c, err := T.Get(i, AtomName, false)
	return c.Strings, err
}

// CoordsMatrix returns the positions of the atoms of the ith frame as a
// new matrix.
func (T *Trajectory) CoordsMatrix(i int) (*v3.Matrix, error) {
	c, err := T.Get(i, Coord, false)
	if err != nil {
		return nil, err
	}
	if len(c.Vecs) == 0 {
		return nil, newError(ErrShape, i, Coord, "frame has no atoms", "CoordsMatrix")
	}
	return v3.FromVecs(c.Vecs)
}

// SetCoordsMatrix overwrites the positions of the atoms of the ith
// frame with the vectors of coords.
func (T *Trajectory) SetCoordsMatrix(i int, coords *v3.Matrix) error {
	if coords == nil {
		return newError(ErrInvalidValue, i, Coord, "nil coordinates", "SetCoordsMatrix")
	}
	return T.SetCoords(i, coords.Vecs())
}
