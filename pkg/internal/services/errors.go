package services

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrNoDefaultQuestionSet = errors.New("team has no default question set")
	ErrRoundClosed          = errors.New("round is no longer open")
	ErrRoundAlreadyClosed   = errors.New("round is already closed")
)

var (
	ErrEmptySubmission = errors.New("submission has no answers")
	ErrInvalidAnswer   = errors.New("answer does not belong to this round")
	ErrValueOutOfRange = errors.New("answer value is outside the round scale")
	ErrInvalidScale    = errors.New("unsupported scale")
	ErrInvalidKind     = errors.New("unsupported question kind")
	ErrInvalidCadence  = errors.New("unsupported cadence")
	ErrInvalidInput    = errors.New("invalid input")
)

// IsInvalidState reports whether err rejects an operation because of the
// current state of a round rather than because of bad input.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrRoundClosed) || errors.Is(err, ErrRoundAlreadyClosed)
}

// IsInvalidInput reports whether err is caused by a value supplied by the
// caller.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptySubmission) ||
		errors.Is(err, ErrInvalidAnswer) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidScale) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidCadence) ||
		errors.Is(err, ErrInvalidInput)
}
