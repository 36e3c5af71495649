// Package report formats a scene assessment as a plain text document for
// export.
package report

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tripsafe/go-tripsafe/advisory"
	"github.com/tripsafe/go-tripsafe/hazard"
)

const (
	// Title is the first line of every report
	Title = "TRIPSAFE AI REPORT"
	// DateLayout is the layout of the capture timestamp in the header
	DateLayout = time.ANSIC
)

// Generate returns the report text.  The header holds the product name, the
// capture time and the localised risk level, followed by the distinct hazard
// items found and the recommended actions with emphasis markup removed
func Generate(scene hazard.SceneAssessment, suggestions []advisory.Suggestion,
	capturedAt time.Time, locale string) string {

	items := lo.Map(scene.UniqueHazardLabels(), func(l string, _ int) string {
		return "- " + l
	})

	actions := lo.Map(suggestions, func(s advisory.Suggestion, _ int) string {
		return StripEmphasis(s.String())
	})

	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString("Date: " + capturedAt.Format(DateLayout) + "\n")
	b.WriteString("Status: " + advisory.StatusLabel(scene.RiskLevel, locale) + "\n")
	b.WriteString("\nITEMS FOUND:\n")
	b.WriteString(strings.Join(items, "\n"))
	b.WriteString("\n\nRECOMMENDED ACTIONS:\n")
	b.WriteString(strings.Join(actions, "\n"))

	return b.String()
}

// StripEmphasis removes bold markup from a line
func StripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
