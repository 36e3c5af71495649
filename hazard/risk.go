package hazard

import "github.com/samber/lo"

// RiskLevel is the scene level verdict
type RiskLevel int

const (
	// Safe means no hazard was found
	Safe RiskLevel = iota
	// Caution is reserved for floor clutter that is not a hazard.  No rule
	// currently produces it
	Caution
	// Critical means at least one hazard was found
	Critical
)

// String returns the name of the risk level
func (r RiskLevel) String() string {
	switch r {
	case Critical:
		return "critical"
	case Caution:
		return "caution"
	default:
		return "safe"
	}
}

// MarshalText encodes the risk level by name
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// SceneAssessment is the risk verdict for a single image
type SceneAssessment struct {
	RiskLevel     RiskLevel `json:"risk_level"`
	HazardCount   int       `json:"hazard_count"`
	SafeZoneCount int       `json:"safe_zone_count"`
	NeutralCount  int       `json:"neutral_count"`
	// HazardLabels holds one entry per hazard detection in detection order
	HazardLabels []string `json:"hazard_labels"`
	// SafeZoneLabels holds one entry per safe zone detection in detection order
	SafeZoneLabels []string `json:"safe_zone_labels"`
}

// Assess aggregates the classified detections into a SceneAssessment
func Assess(dets []ClassifiedDetection) SceneAssessment {

	sa := SceneAssessment{
		HazardLabels:   labelsOf(dets, Hazard),
		SafeZoneLabels: labelsOf(dets, SafeZone),
		NeutralCount: lo.CountBy(dets, func(d ClassifiedDetection) bool {
			return d.Category == Neutral
		}),
	}

	sa.HazardCount = len(sa.HazardLabels)
	sa.SafeZoneCount = len(sa.SafeZoneLabels)

	switch {
	case sa.HazardCount > 0:
		sa.RiskLevel = Critical

	case len(sa.HazardLabels) > 0:
		// unreachable: HazardLabels only ever holds Hazard category labels, so
		// any entry has already produced Critical above
		sa.RiskLevel = Caution

	default:
		sa.RiskLevel = Safe
	}

	return sa
}

// UniqueHazardLabels returns the distinct hazard labels in first seen order
func (sa SceneAssessment) UniqueHazardLabels() []string {
	return lo.Uniq(sa.HazardLabels)
}

// UniqueSafeZoneLabels returns the distinct safe zone labels in first seen order
func (sa SceneAssessment) UniqueSafeZoneLabels() []string {
	return lo.Uniq(sa.SafeZoneLabels)
}

// labelsOf returns the labels of every detection in the given category
func labelsOf(dets []ClassifiedDetection, c Category) []string {

	labels := make([]string, 0)

	for _, d := range dets {
		if d.Category == c {
			labels = append(labels, d.Label)
		}
	}

	return labels
}
