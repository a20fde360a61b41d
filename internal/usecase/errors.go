package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Standings engine taxonomy. All of these are expected, recoverable
	// conditions surfaced to the operator; none should crash the process.
	ErrInvalidRank        = errors.New("invalid rank")
	ErrDuplicatePlacement = errors.New("placement already exists")
	ErrPlacementNotFound  = errors.New("placement not found")
	ErrUnknownEvent       = errors.New("unknown event")
	ErrNoActionToUndo     = errors.New("no action to undo")
	ErrMalformedLogEntry  = errors.New("malformed log entry")
)
