package hazard

import "github.com/tripsafe/go-tripsafe/postprocess"

// ClassifiedDetection is a detection that survived suppression together with
// its resolved label and category
type ClassifiedDetection struct {
	Box        postprocess.Box `json:"box"`
	Label      string          `json:"label"`
	Category   Category        `json:"category"`
	Confidence float32         `json:"confidence"`
}

// Classify resolves the class index of each detection to a label using
// classNames and then to a Category using the table.  Indices outside of
// classNames give an empty label, which classifies as Neutral
func Classify(dets []postprocess.RawDetection, classNames []string,
	table *LabelTable) []ClassifiedDetection {

	out := make([]ClassifiedDetection, 0, len(dets))

	for _, det := range dets {

		var label string

		if det.ClassIndex >= 0 && det.ClassIndex < len(classNames) {
			label = classNames[det.ClassIndex]
		}

		out = append(out, ClassifiedDetection{
			Box:        det.Box,
			Label:      label,
			Category:   table.Category(label),
			Confidence: det.Confidence,
		})
	}

	return out
}
