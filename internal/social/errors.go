package social

import "errors"

// Sentinel errors returned by the resolver and state machine. Handlers
// match them with errors.Is and translate them to HTTP statuses; the
// core never writes transport concerns.
var (
	// ErrMissingUser means one of the user ids was zero.
	ErrMissingUser = errors.New("missing user id")

	// ErrSelfRelation means a user tried to send a request to themself.
	ErrSelfRelation = errors.New("cannot send a request to yourself")

	// ErrRequestNotFound means the request record no longer exists.
	ErrRequestNotFound = errors.New("request no longer exists")

	// ErrRequestNotPending means the request exists but is not in the
	// pending state, so it cannot be accepted.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrWriteConflict means concurrent updates kept winning against
	// this one until the retry budget ran out.
	ErrWriteConflict = errors.New("conflicting update, retries exhausted")
)
