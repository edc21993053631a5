package discovery

import "errors"

var (
	// ErrBlankInput marks a blank or whitespace-only query/reply. The caller
	// treats it as a no-op: session state is left untouched.
	ErrBlankInput = errors.New("input is blank")

	// ErrRequestInFlight is returned when another request for the same
	// session hasn't resolved yet. Only one logical request is ever in
	// flight per session.
	ErrRequestInFlight = errors.New("a request is already in flight for this session")

	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("discovery session not found or expired")

	// ErrWrongPhase is returned when an operation doesn't apply to the
	// session's current phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")
)
