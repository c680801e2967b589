package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrCapacity = errors.New("session capacity reached")
	ErrClosed   = errors.New("session store closed")
)
