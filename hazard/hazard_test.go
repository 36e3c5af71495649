package hazard

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/tripsafe/go-tripsafe/postprocess"
)

var testNames = []string{"person", "bottle", "knife", "laptop", "desk", "chair", "sofa"}

func TestLabelTable(t *testing.T) {

	lt := DefaultLabelTable()

	test.That(t, lt.Category("knife"), test.ShouldEqual, Hazard)
	test.That(t, lt.Category("dining table"), test.ShouldEqual, SafeZone)
	test.That(t, lt.Category("person"), test.ShouldEqual, Neutral)
	test.That(t, lt.Category(""), test.ShouldEqual, Neutral)
	test.That(t, lt.HazardLabels(), test.ShouldHaveLength, len(DefaultHazardLabels))

	// copies do not leak into the table
	hz := lt.HazardLabels()
	hz[0] = "person"
	test.That(t, lt.HazardLabels()[0], test.ShouldEqual, "sports ball")
}

func TestLabelTableDuplicate(t *testing.T) {

	_, err := NewLabelTable([]string{"bottle"}, []string{"desk", "bottle"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bottle")

	_, err = NewLabelTable([]string{""}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadLabelTable(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "table.json")
	err := os.WriteFile(file, []byte(`{"hazards":["cable"],"safe_zones":["shelf"]}`), 0o644)
	test.That(t, err, test.ShouldBeNil)

	lt, err := LoadLabelTable(file)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lt.Category("cable"), test.ShouldEqual, Hazard)
	test.That(t, lt.Category("shelf"), test.ShouldEqual, SafeZone)
	test.That(t, lt.Category("bottle"), test.ShouldEqual, Neutral)

	_, err = LoadLabelTable(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	bad := filepath.Join(dir, "bad.json")
	test.That(t, os.WriteFile(bad, []byte(`{`), 0o644), test.ShouldBeNil)
	_, err = LoadLabelTable(bad)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClassify(t *testing.T) {

	dets := []postprocess.RawDetection{
		{ClassIndex: 2, Confidence: 0.9},
		{ClassIndex: 4, Confidence: 0.8},
		{ClassIndex: 0, Confidence: 0.7},
		{ClassIndex: 99, Confidence: 0.6},
		{ClassIndex: -1, Confidence: 0.5},
	}

	got := Classify(dets, testNames, DefaultLabelTable())
	test.That(t, got, test.ShouldHaveLength, 5)

	test.That(t, got[0].Label, test.ShouldEqual, "knife")
	test.That(t, got[0].Category, test.ShouldEqual, Hazard)
	test.That(t, got[1].Category, test.ShouldEqual, SafeZone)
	test.That(t, got[2].Category, test.ShouldEqual, Neutral)
	test.That(t, got[3].Label, test.ShouldEqual, "")
	test.That(t, got[3].Category, test.ShouldEqual, Neutral)
	test.That(t, got[4].Category, test.ShouldEqual, Neutral)
	test.That(t, got[0].Confidence, test.ShouldEqual, float32(0.9))
}

func TestAssess(t *testing.T) {

	tests := []struct {
		name      string
		dets      []ClassifiedDetection
		risk      RiskLevel
		hazards   int
		safeZones int
	}{
		{"empty", nil, Safe, 0, 0},
		{"neutral only", []ClassifiedDetection{{Label: "person", Category: Neutral}}, Safe, 0, 0},
		{"safe zone only", []ClassifiedDetection{{Label: "desk", Category: SafeZone}}, Safe, 0, 1},
		{"one hazard", []ClassifiedDetection{{Label: "knife", Category: Hazard}}, Critical, 1, 0},
		{"mixed", []ClassifiedDetection{
			{Label: "laptop", Category: Hazard},
			{Label: "desk", Category: SafeZone},
			{Label: "laptop", Category: Hazard},
			{Label: "person", Category: Neutral},
		}, Critical, 2, 1},
	}

	for _, tc := range tests {
		sa := Assess(tc.dets)
		test.That(t, sa.RiskLevel, test.ShouldEqual, tc.risk)
		test.That(t, sa.HazardCount, test.ShouldEqual, tc.hazards)
		test.That(t, sa.SafeZoneCount, test.ShouldEqual, tc.safeZones)
		test.That(t, sa.HazardCount > 0, test.ShouldEqual, sa.RiskLevel == Critical)
	}
}

func TestAssessCautionUnreachable(t *testing.T) {

	// Caution is kept in the enum but no input reaches it with the current
	// rules: any hazard makes the scene Critical, anything else is Safe
	inputs := [][]ClassifiedDetection{
		nil,
		{{Label: "person", Category: Neutral}, {Label: "chair", Category: Neutral}},
		{{Label: "bed", Category: SafeZone}},
		{{Label: "cup", Category: Hazard}},
	}

	for _, in := range inputs {
		test.That(t, Assess(in).RiskLevel, test.ShouldNotEqual, Caution)
	}

	test.That(t, Caution.String(), test.ShouldEqual, "caution")
}

func TestUniqueLabels(t *testing.T) {

	sa := Assess([]ClassifiedDetection{
		{Label: "cup", Category: Hazard},
		{Label: "bottle", Category: Hazard},
		{Label: "cup", Category: Hazard},
		{Label: "sofa", Category: SafeZone},
		{Label: "sofa", Category: SafeZone},
	})

	test.That(t, sa.UniqueHazardLabels(), test.ShouldResemble, []string{"cup", "bottle"})
	test.That(t, sa.UniqueSafeZoneLabels(), test.ShouldResemble, []string{"sofa"})
	test.That(t, sa.HazardLabels, test.ShouldHaveLength, 3)
}
