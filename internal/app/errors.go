package app

import "errors"

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("app: already running")

	// ErrNoDocument indicates no document path was given.
	ErrNoDocument = errors.New("app: no document given")

	// ErrConflictingModes indicates both one-shot modes were requested.
	ErrConflictingModes = errors.New("app: -plain and -html are mutually exclusive")
)

// InitError reports which component failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
