package repository

import "errors"

// Sentinel kinds for report store errors.
var (
	ErrNotReady     = errors.New("no report published yet")
	ErrNotFound     = errors.New("competitor not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrUnknownEvent = errors.New("unknown event")
)
