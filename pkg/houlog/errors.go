package houlog

import "errors"

var (
	// ErrUninitialized is returned when a session that was not created with
	// New is used.
	ErrUninitialized = errors.New("houlog: session not initialized")

	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("houlog: session closed")

	// ErrInvalidConfig is returned when New is given an unusable configuration.
	ErrInvalidConfig = errors.New("houlog: invalid configuration")
)
