// Package advisory generates placement suggestions for detected trip hazards
// and the localised status texts of a scene.
package advisory

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tripsafe/go-tripsafe/hazard"
)

// Suggestion is the placement advice for one distinct hazard label
type Suggestion struct {
	HazardLabel string `json:"hazard_label"`
	Advice      string `json:"advice"`
}

// String renders the suggestion as a list item with emphasis markup
func (s Suggestion) String() string {
	return fmt.Sprintf("🔸 **%s**: %s", TitleLabel(s.HazardLabel), s.Advice)
}

// TitleLabel returns the label with each word capitalised
func TitleLabel(label string) string {
	return cases.Title(language.English).String(label)
}

// rule picks an advice for a hazard label given the furniture in frame
type rule func(furniture map[string]bool) adviceKey

func fixed(k adviceKey) rule {
	return func(map[string]bool) adviceKey { return k }
}

// ifPresent returns the first advice when the furniture is in frame and the
// second otherwise
func ifPresent(furniture string, present, absent adviceKey) rule {
	return func(in map[string]bool) adviceKey {
		if in[furniture] {
			return present
		}
		return absent
	}
}

// rules is the decision table keyed by hazard label.  Labels without an
// entry get adviceClearFloor
var rules = map[string]rule{
	"bottle":   fixed(adviceBottle),
	"cup":      fixed(adviceDrinkware),
	"bowl":     fixed(adviceDrinkware),
	"book":     ifPresent("desk", adviceDesk, adviceShelf),
	"laptop":   ifPresent("desk", adviceDesk, adviceShelf),
	"mouse":    ifPresent("desk", adviceDesk, adviceShelf),
	"backpack": ifPresent("sofa", adviceSofa, adviceCloset),
	"handbag":  ifPresent("sofa", adviceSofa, adviceCloset),
}

// Suggest returns one Suggestion per distinct hazard label, in the order the
// labels were first seen.  Contextual rules only consult safeZoneLabels, the
// furniture detected in the same image
func Suggest(hazardLabels, safeZoneLabels []string, locale string) []Suggestion {

	table := phrasesFor(locale)

	furniture := lo.SliceToMap(safeZoneLabels, func(l string) (string, bool) {
		return l, true
	})

	labels := lo.Uniq(hazardLabels)
	out := make([]Suggestion, 0, len(labels))

	for _, label := range labels {

		key := adviceClearFloor

		if r, ok := rules[label]; ok {
			key = r(furniture)
		}

		out = append(out, Suggestion{
			HazardLabel: label,
			Advice:      table.advice[key],
		})
	}

	return out
}

// StatusLabel returns the short localised name of the risk level
func StatusLabel(level hazard.RiskLevel, locale string) string {
	return phrasesFor(locale).statusLabel[knownLevel(level)]
}

// StatusMessage returns the localised alert sentence for the risk level,
// suitable for display or narration
func StatusMessage(level hazard.RiskLevel, hazardCount int, locale string) string {

	level = knownLevel(level)
	msg := phrasesFor(locale).statusMessage[level]

	if level == hazard.Critical {
		return fmt.Sprintf(msg, hazardCount)
	}

	return msg
}

// knownLevel maps levels outside Safe..Critical to Safe
func knownLevel(level hazard.RiskLevel) hazard.RiskLevel {
	if level < hazard.Safe || level > hazard.Critical {
		return hazard.Safe
	}
	return level
}
