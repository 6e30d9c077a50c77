package mdconv

import (
	"errors"
	"strings"
)

// CError is the error type of the conversion functions in this package.
// It fulfills Error, and wraps the error that caused it, if any.
type CError struct {
	msg  string
	deco []string
	err  error
}

func (err *CError) Error() string {
	if err.err == nil {
		return "mdconv: " + err.msg
	}
	return "mdconv: " + err.msg + ": " + err.err.Error()
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err *CError) Unwrap() error { return err.err }

func newCError(msg string, wrapped error, deco ...string) *CError {
	return &CError{msg: msg, err: wrapped, deco: deco}
}

// errDecorate decorates err with caller if it implements Error, and
// returns it.
func errDecorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

// Trace returns the chain of functions an error went through, if the
// error implements Error.
func Trace(err error) string {
	var e Error
	if !errors.As(err, &e) {
		return ""
	}
	return strings.Join(e.Decorate(""), " <- ")
}
