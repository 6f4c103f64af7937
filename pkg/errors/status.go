package errors

// Status is the status-union return convention used throughout the object
// model: every fallible operation returns either a plain Go error (the
// idiomatic replacement for an out-of-band exception tag) or nil. Call sites
// that also need a boolean result (e.g. putNamed under throwOnError=false)
// return (bool, error) directly instead of wrapping the bool in Status; Status
// exists for operations that need to distinguish "handled, no exception" from
// "raised" without also carrying a value.
type Status struct {
	Err error
}

// OK reports whether the operation completed without raising.
func (s Status) OK() bool { return s.Err == nil }

// Ok is the zero-value success status.
var Ok = Status{}

// Raise wraps an error into a failing Status.
func Raise(err error) Status { return Status{Err: err} }
