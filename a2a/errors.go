package a2a

import "errors"

// Agent Card validation errors.
var (
	// ErrMissingName indicates the agent card is missing a name.
	ErrMissingName = errors.New("agent card: missing name")
	// ErrMissingDescription indicates the agent card is missing a description.
	ErrMissingDescription = errors.New("agent card: missing description")
	// ErrMissingURL indicates the agent card is missing a URL.
	ErrMissingURL = errors.New("agent card: missing url")
	// ErrMissingVersion indicates the agent card is missing a version.
	ErrMissingVersion = errors.New("agent card: missing version")
)

// A2A protocol errors.
var (
	// ErrRemoteUnavailable indicates the remote scheduler is unavailable.
	ErrRemoteUnavailable = errors.New("a2a: remote scheduler unavailable")
	// ErrAuthFailed indicates authentication failed.
	ErrAuthFailed = errors.New("a2a: authentication failed")
	// ErrInvalidResponse indicates the scheduler's response could not be decoded.
	ErrInvalidResponse = errors.New("a2a: invalid response payload")
)
