package tripsafe

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// DefaultBoxThreshold is the default confidence threshold
	DefaultBoxThreshold = 0.25
	// DefaultNMSThreshold is the default Non-Maximum Suppression IoU threshold
	DefaultNMSThreshold = 0.40
	// DefaultLocale is the locale used for advice and report texts
	DefaultLocale = "en"
)

// Options are the per request settings of an assessment
type Options struct {
	// BoxThreshold is the minimum confidence score required for a candidate
	// to be kept
	BoxThreshold float32
	// NMSThreshold is the maximum allowed Intersection Over Union (IoU)
	// between two kept bounding boxes
	NMSThreshold float32
	// Locale selects the language of advice, status and report texts
	Locale string
	// AudioEnabled is carried through for the presentation layer, the
	// assessment does not use it
	AudioEnabled bool
	// DegradeOnDetectorError treats a failing detector as an image with no
	// detections instead of returning ErrDetectorUnavailable
	DegradeOnDetectorError bool
}

// DefaultOptions returns Options with the default thresholds and locale
func DefaultOptions() Options {
	return Options{
		BoxThreshold: DefaultBoxThreshold,
		NMSThreshold: DefaultNMSThreshold,
		Locale:       DefaultLocale,
		AudioEnabled: true,
	}
}

// Validate checks both thresholds are within [0,1].  Values are never
// clamped
func (o Options) Validate() error {

	if !inUnitRange(o.BoxThreshold) {
		return errors.Wrapf(ErrInvalidThreshold, "confidence threshold %v", o.BoxThreshold)
	}

	if !inUnitRange(o.NMSThreshold) {
		return errors.Wrapf(ErrInvalidThreshold, "suppression threshold %v", o.NMSThreshold)
	}

	return nil
}

func inUnitRange(v float32) bool {
	return !math.IsNaN(float64(v)) && v >= 0 && v <= 1
}
