package postprocess

import "github.com/samber/lo"

// FilterByConfidence returns the candidates whose confidence is at least the
// given threshold.  The relative order of the input is preserved
func FilterByConfidence(dets []RawDetection, threshold float32) []RawDetection {

	if len(dets) == 0 {
		return []RawDetection{}
	}

	return lo.Filter(dets, func(d RawDetection, _ int) bool {
		return d.Confidence >= threshold
	})
}
