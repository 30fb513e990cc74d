package occfile

import "errors"

// ErrBadFormat reports a header mismatch or truncation: a log2_tile_w that
// disagrees with the width this process expects, or a recorded size smaller
// than the header itself. Opening such a file exposes no partial state.
var ErrBadFormat = errors.New("occfile: bad format")

// ErrIoFailure wraps an underlying I/O error from the backing file. No
// retry is attempted; the caller decides what to do next.
var ErrIoFailure = errors.New("occfile: io failure")

func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ioFailure{op: op, cause: err}
}

type ioFailure struct {
	op    string
	cause error
}

func (e *ioFailure) Error() string {
	return "occfile: " + e.op + ": " + e.cause.Error()
}

func (e *ioFailure) Unwrap() []error {
	return []error{ErrIoFailure, e.cause}
}
