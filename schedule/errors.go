package schedule

import "errors"

// Entity validation errors.
var (
	// ErrInvalidWindow indicates a window whose end is not strictly after its start.
	ErrInvalidWindow = errors.New("schedule: window end must be after start")
	// ErrMissingTouristID indicates a tourist request without an identifier.
	ErrMissingTouristID = errors.New("schedule: tourist request missing tourist_id")
	// ErrMissingGuideID indicates a guide offer without an identifier.
	ErrMissingGuideID = errors.New("schedule: guide offer missing guide_id")
	// ErrNegativeBudget indicates a tourist request with a budget below zero.
	ErrNegativeBudget = errors.New("schedule: budget must not be negative")
	// ErrInvalidRate indicates a guide offer with a non-positive hourly rate.
	ErrInvalidRate = errors.New("schedule: hourly_rate must be positive")
	// ErrInvalidGroupSize indicates a guide offer with a group size below one.
	ErrInvalidGroupSize = errors.New("schedule: max_group_size must be at least 1")
)

// Message decoding errors.
var (
	// ErrInvalidMessage indicates a payload that is not valid JSON or has no type field.
	ErrInvalidMessage = errors.New("schedule: invalid message payload")
	// ErrUnknownMessageType indicates a payload whose type discriminator is not recognised.
	ErrUnknownMessageType = errors.New("schedule: unknown message type")
)
