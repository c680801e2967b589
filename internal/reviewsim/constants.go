package reviewsim

import "time"

// Default run parameters.
const (
	DefaultEmployees = 200
	DefaultMoves     = 1000
	DefaultTimeout   = 30 * time.Second
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

