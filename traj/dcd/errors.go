package dcd

import "fmt"

//Error is the general structure for DCD trajectory errors. It fullfills mdconv.Error and mdconv.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	if err.err != nil {
		return fmt.Sprintf("dcd file %s error: %s: %v", err.filename, err.message, err.err)
	}
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err *Error) FileName() string { return err.filename }

func (err *Error) Format() string { return "dcd" }

func (err *Error) Critical() bool { return err.critical }

func (err *Error) Unwrap() error { return err.err }

const (
	TrajUnIni      = "Traj object uninitialized to read"
	ReadError      = "Error reading frame"
	WriteError     = "Error writing frame"
	UnableToOpen   = "Unable to open file"
	SecurityCheck  = "Failed Security Check"
	WrongFormat    = "Wrong format in the DCD file or frame"
	NotEnoughSpace = "Not enough space in passed slices"
	EOF            = "EOF"
)

func newError(message, filename, caller string, err error) *Error {
	return &Error{message: message, filename: filename, deco: []string{caller}, critical: true, err: err}
}

//lastFrameError implements mdconv.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//lastFrameError does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return EOF }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "dcd" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
