package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnknownSession    = errors.New("server no longer knows this session")
	ErrNoActiveSession   = errors.New("no active session")
	ErrSessionNotDone    = errors.New("session has not completed")
	ErrTooManyActiveJobs = errors.New("too many active jobs")
)
