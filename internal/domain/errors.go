package domain

import "errors"

var (
	// ErrSelectionLimitExceeded is returned when a slot would exceed the mode's cap
	ErrSelectionLimitExceeded = errors.New("selection limit exceeded")

	// ErrIncompleteSelection is returned when date, service or slots are missing
	ErrIncompleteSelection = errors.New("incomplete selection")

	// ErrIncompleteContactInfo is returned when name or email are missing or invalid
	ErrIncompleteContactInfo = errors.New("incomplete contact info")

	// ErrSubmissionFailed is returned when the booking gateway rejects a draft
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrInvalidTransition is returned when an operation is not allowed in the current step
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSlotUnavailable is returned when a slot is unknown or already taken
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidMode is returned for an unknown booking mode
	ErrInvalidMode = errors.New("invalid booking mode")

	// ErrStaleSubmission is returned when a gateway result does not match the pending draft
	ErrStaleSubmission = errors.New("stale submission result")

	// ErrSubmissionUnresolved is returned when a changed booking is finalized
	// while the outcome of the previous draft is still unknown
	ErrSubmissionUnresolved = errors.New("previous submission unresolved")
)
