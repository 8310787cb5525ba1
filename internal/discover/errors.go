package discover

import "errors"

var (
	// ErrProfileMissing means the querying user has no profile record.
	ErrProfileMissing = errors.New("profile missing")

	// ErrInvalidUsername means the search query normalized to nothing.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrUsernameNotFound means no user has claimed the searched
	// username.
	ErrUsernameNotFound = errors.New("no user with that username")
)
