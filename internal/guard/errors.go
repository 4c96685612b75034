package guard

import "errors"

var (
	// ErrUnavailable indicates the guard model server is unreachable.
	ErrUnavailable = errors.New("guard server unavailable")

	// ErrTimeout indicates the guard request exceeded the configured timeout.
	ErrTimeout = errors.New("guard request timed out")

	// ErrProtocol indicates the guard response could not be parsed into the
	// required classification schema.
	ErrProtocol = errors.New("guard response violates protocol")
)
