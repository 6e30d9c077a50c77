package gro

import (
	"fmt"
	"strings"
)

// Kind classifies the errors returned by the package. Each Kind is itself an
// error, so errors.Is(err, gro.ErrShape) can be used to test for it.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// ErrFormat marks malformed GRO input.
	ErrFormat = Kind("malformed GRO data")
	// ErrShape marks a value set whose length doesn't match the atoms of the frame.
	ErrShape = Kind("shape mismatch")
	// ErrMissingDimension marks an access to velocities in a frame that has none.
	ErrMissingDimension = Kind("missing dimension")
	// ErrFrameRange marks a frame index outside the trajectory.
	ErrFrameRange = Kind("frame index out of range")
	// ErrInvalidValue marks a value that can't be represented in a GRO file.
	ErrInvalidValue = Kind("invalid value")
)

// Error is the error type for the package. It fulfills mdconv.TrajError.
// Frame and Line are -1 and 0, respectively, when they don't apply.
type Error struct {
	Kind     Kind
	Frame    int
	Field    Field
	Line     int
	message  string
	filename string
	deco     []string
	critical bool
	err      error
}

func newError(kind Kind, frame int, field Field, message string, caller string) *Error {
	return &Error{Kind: kind, Frame: frame, Field: field, message: message, deco: []string{caller}, critical: true}
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString("gro")
	if err.filename != "" {
		b.WriteString(" file ")
		b.WriteString(err.filename)
	}
	b.WriteString(": ")
	b.WriteString(string(err.Kind))
	if err.Frame >= 0 {
		fmt.Fprintf(&b, ", frame %d", err.Frame)
	}
	if err.Line > 0 {
		fmt.Fprintf(&b, ", line %d", err.Line)
	}
	if err.Field != NoField {
		fmt.Fprintf(&b, ", field %s", err.Field)
	}
	if err.message != "" {
		b.WriteString(": ")
		b.WriteString(err.message)
	}
	if err.err != nil {
		b.WriteString(": ")
		b.WriteString(err.err.Error())
	}
	return b.String()
}

// Decorate adds the caller to the list of functions the error has been
// passed through, and returns that list.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err *Error) FileName() string { return err.filename }

func (err *Error) Format() string { return "gro" }

func (err *Error) Critical() bool { return err.critical }

func (err *Error) Unwrap() error { return err.err }

// Is reports whether target is the Kind of the error.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.Kind
}

// lastFrameError is returned by FrameReader.Next when there are no
// frames left. It implements mdconv.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "gro" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
