package session

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not legal in the
	// current phase. The machine stays in its prior stable state.
	ErrInvalidTransition = errors.New("operation not allowed in current phase")

	// ErrRetakeNotAllowed is returned for retake on a single-attempt quiz.
	ErrRetakeNotAllowed = errors.New("quiz does not allow another attempt")

	// ErrUnknownQuestion is returned for answers to questions outside the quiz.
	ErrUnknownQuestion = errors.New("question is not part of the active quiz")

	// ErrSubmitInFlight guards against a second submission of the same attempt.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrStaleResponse marks a network response that arrived for an attempt
	// that is no longer current. Its effects are discarded.
	ErrStaleResponse = errors.New("response for superseded attempt discarded")
)
