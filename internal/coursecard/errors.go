package coursecard

import "errors"

var (
	// ErrCardNotFound is returned when an intent addresses a slot that does
	// not exist.
	ErrCardNotFound = errors.New("course card not found")

	// ErrFetchFailed wraps failures of a card's section fetch, whether the
	// backend call or parsing its response failed. The store recovers from
	// it by leaving the card's sections untouched.
	ErrFetchFailed = errors.New("section fetch failed")
)
