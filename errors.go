package tripsafe

import "github.com/pkg/errors"

var (
	// ErrInvalidThreshold is returned when a confidence or suppression
	// threshold is outside of [0,1]
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")

	// ErrDetectorUnavailable is returned when the object detector could not
	// be invoked, for example because the model is not loaded
	ErrDetectorUnavailable = errors.New("object detector unavailable")
)

// detectorError wraps a detector failure so it matches both
// ErrDetectorUnavailable and the underlying cause with errors.Is and
// errors.As
type detectorError struct {
	cause error
}

func (e *detectorError) Error() string {
	return ErrDetectorUnavailable.Error() + ": " + e.cause.Error()
}

func (e *detectorError) Unwrap() error {
	return e.cause
}

func (e *detectorError) Is(target error) bool {
	return target == ErrDetectorUnavailable
}
