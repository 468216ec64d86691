package domain

import "errors"

var (
	// ErrNotFound is returned when the content item or review record
	// the caller asked about does not exist, or when Learn mode has no
	// eligible candidate left. A legitimate "nothing to do", not bad input
	ErrNotFound = errors.New("not found")

	// ErrInvalidRating is returned for a rating outside {1,2,3,4}.
	// Nothing is mutated
	ErrInvalidRating = errors.New("invalid rating")
)
