package postprocess

import (
	"math"
	"sort"
)

// Suppress implements a greedy Non-Maximum Suppression (NMS) over the whole
// candidate pool.  Candidates are visited in descending confidence order, with
// equal confidences keeping their original order, and every later candidate
// whose IoU with a kept box exceeds threshold is discarded.
//
// Suppression is not grouped by class, so a high confidence box of one class
// can remove an overlapping box of another class.
func Suppress(dets []RawDetection, threshold float32) []RawDetection {

	validCount := len(dets)

	if validCount == 0 {
		return []RawDetection{}
	}

	// order holds indices into dets, -1 marks a suppressed candidate
	order := make([]int, validCount)

	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return dets[order[a]].Confidence > dets[order[b]].Confidence
	})

	nms(dets, order, threshold)

	kept := make([]RawDetection, 0, validCount)

	for _, n := range order {
		if n == -1 {
			continue
		}
		kept = append(kept, dets[n])
	}

	return kept
}

// nms marks with -1 every entry of order that overlaps a higher ranked,
// unsuppressed entry by more than threshold
func nms(dets []RawDetection, order []int, threshold float32) {

	for i := 0; i < len(order); i++ {

		if order[i] == -1 {
			continue
		}

		n := order[i]

		for j := i + 1; j < len(order); j++ {
			m := order[j]

			if m == -1 {
				continue
			}

			if IoU(dets[n].Box, dets[m].Box) > threshold {
				order[j] = -1
			}
		}
	}
}

// IoU returns the Intersection over Union of two boxes
func IoU(a, b Box) float32 {
	return calculateOverlap(
		float32(a.X), float32(a.Y), float32(a.Right()), float32(a.Bottom()),
		float32(b.X), float32(b.Y), float32(b.Right()), float32(b.Bottom()),
	)
}

// calculateOverlap works out the Intersection of Union (IoU) value of two
// boxes dimensions.  Edges are exclusive, matching OpenCV's rectangle
// arithmetic used by NMSBoxes
func calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1,
	xmax1, ymax1 float32) float32 {

	w := math.Max(0.0, math.Min(float64(xmax0), float64(xmax1))-math.Max(float64(xmin0), float64(xmin1)))
	h := math.Max(0.0, math.Min(float64(ymax0), float64(ymax1))-math.Max(float64(ymin0), float64(ymin1)))
	intersection := w * h

	area0 := math.Max(0, float64(xmax0-xmin0)) * math.Max(0, float64(ymax0-ymin0))
	area1 := math.Max(0, float64(xmax1-xmin1)) * math.Max(0, float64(ymax1-ymin1))

	union := area0 + area1 - intersection

	if union <= 0 {
		return 0.0
	}

	return float32(intersection / union)
}
