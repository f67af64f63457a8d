package domain

import "github.com/pkg/errors"

var (
	// ErrNotFound reports that an identifier does not resolve to a stored
	// record. Malformed identifiers resolve to the same error: callers
	// cannot distinguish "never existed" from "bad identifier".
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDateRange reports a date-range filter string that could not
	// be parsed.
	ErrInvalidDateRange = errors.New("invalid date range")
)
