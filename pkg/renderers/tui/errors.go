package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoCompanion is returned by Run when no companion is supplied.
	ErrNoCompanion = errors.New("tui: companion is required")
)
