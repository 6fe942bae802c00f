package arena

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is returned by Config.Validate and New
	ErrInvalidConfig = errors.New("invalid arena config")

	// ErrInvalidSwarmSize is returned when the win threshold is out of range
	ErrInvalidSwarmSize = errors.New("invalid max swarm size")

	// ErrNotRunning is returned when ticking a session that is not running
	ErrNotRunning = errors.New("session not running")

	// ErrNotFinished is returned when terminating a session that has no winner yet
	ErrNotFinished = errors.New("session not finished")

	// ErrAlreadyConfigured is returned when ConfigureSession is called twice
	ErrAlreadyConfigured = errors.New("session already configured")
)
