package wifi

import "errors"

var (
	// ErrBackendUnavailable means the network daemon is unreachable.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendTimeout means the daemon did not answer within the bounded
	// interval. The underlying operation may still complete out-of-band and
	// will be picked up by a later event or scan.
	ErrBackendTimeout = errors.New("backend timeout")
	// ErrAuthRequired means the network needs a credential that was not
	// supplied.
	ErrAuthRequired = errors.New("authentication required")
	// ErrAuthRejected means the supplied credential was refused.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrUnreachable means the network could not be reached (out of range,
	// association failed).
	ErrUnreachable = errors.New("network unreachable")
	// ErrNotFound means no matching network or saved profile exists.
	ErrNotFound = errors.New("not found")
	// ErrNotSupported means the platform has no usable backend.
	ErrNotSupported = errors.New("not supported")
)
