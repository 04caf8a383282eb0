package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoLocation is returned when the user gives up without a location.
	ErrNoLocation = errors.New("prompt: no location selected")
)
