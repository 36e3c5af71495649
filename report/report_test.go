package report

import (
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/tripsafe/go-tripsafe/advisory"
	"github.com/tripsafe/go-tripsafe/hazard"
)

var captured = time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)

func TestGenerateEmpty(t *testing.T) {

	scene := hazard.Assess(nil)
	txt := Generate(scene, nil, captured, "en")

	expected := "TRIPSAFE AI REPORT\n" +
		"Date: Wed Mar  4 09:30:00 2026\n" +
		"Status: SAFE ENVIRONMENT\n" +
		"\n" +
		"ITEMS FOUND:\n" +
		"\n" +
		"\n" +
		"RECOMMENDED ACTIONS:\n"

	test.That(t, txt, test.ShouldEqual, expected)
}

func TestGenerate(t *testing.T) {

	scene := hazard.Assess([]hazard.ClassifiedDetection{
		{Label: "laptop", Category: hazard.Hazard},
		{Label: "desk", Category: hazard.SafeZone},
		{Label: "laptop", Category: hazard.Hazard},
		{Label: "bottle", Category: hazard.Hazard},
	})

	sugs := advisory.Suggest(scene.HazardLabels, scene.SafeZoneLabels, "en")
	txt := Generate(scene, sugs, captured, "en")

	expected := "TRIPSAFE AI REPORT\n" +
		"Date: Wed Mar  4 09:30:00 2026\n" +
		"Status: CRITICAL RISK\n" +
		"\n" +
		"ITEMS FOUND:\n" +
		"- laptop\n" +
		"- bottle\n" +
		"\n" +
		"RECOMMENDED ACTIONS:\n" +
		"🔸 Laptop: Place on Desk.\n" +
		"🔸 Bottle: If water bottle: Kitchen/Table. If medicine: Cabinet."

	test.That(t, txt, test.ShouldEqual, expected)
	test.That(t, strings.Contains(txt, "**"), test.ShouldBeFalse)

	// byte identical on repeat
	test.That(t, Generate(scene, sugs, captured, "en"), test.ShouldEqual, txt)
}

func TestGenerateHindiStatus(t *testing.T) {

	scene := hazard.Assess([]hazard.ClassifiedDetection{{Label: "cup", Category: hazard.Hazard}})
	txt := Generate(scene, advisory.Suggest(scene.HazardLabels, nil, "hi"), captured, "hi")

	test.That(t, txt, test.ShouldContainSubstring, "Status: गंभीर जोखिम\n")
	test.That(t, txt, test.ShouldContainSubstring, "- cup\n")
}
