package hazard

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Category is the semantic tag a detected object label resolves to
type Category int

const (
	// Neutral labels are neither trip hazards nor safe storage furniture
	Neutral Category = iota
	// Hazard labels are objects that are a trip risk when left on the floor
	Hazard
	// SafeZone labels are furniture that hazards can be stored on or in
	SafeZone
)

// String returns the name of the category
func (c Category) String() string {
	switch c {
	case Hazard:
		return "hazard"
	case SafeZone:
		return "safe_zone"
	default:
		return "neutral"
	}
}

// MarshalText encodes the category by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

var (
	// DefaultHazardLabels are the COCO labels treated as trip hazards
	DefaultHazardLabels = []string{
		"sports ball", "bottle", "cup", "wine glass", "bowl", "knife", "spoon",
		"fork", "scissors", "mouse", "remote", "cell phone", "keyboard", "book",
		"laptop", "backpack", "suitcase", "handbag", "umbrella", "teddy bear",
	}

	// DefaultSafeZoneLabels are the furniture labels hazards can be put away on
	DefaultSafeZoneLabels = []string{
		"dining table", "desk", "sofa", "bed", "cabinet", "refrigerator", "shelf",
	}
)

// LabelTable maps a class name to its Category.  It is built once and is
// read only afterwards, so a single table can be shared by every request
type LabelTable struct {
	categories map[string]Category
	hazards    []string
	safeZones  []string
}

// NewLabelTable returns a LabelTable for the given hazard and safe zone label
// lists.  A name may only appear in one category
func NewLabelTable(hazards, safeZones []string) (*LabelTable, error) {

	lt := &LabelTable{
		categories: make(map[string]Category, len(hazards)+len(safeZones)),
		hazards:    make([]string, 0, len(hazards)),
		safeZones:  make([]string, 0, len(safeZones)),
	}

	for _, name := range hazards {
		if err := lt.add(name, Hazard); err != nil {
			return nil, err
		}
		lt.hazards = append(lt.hazards, name)
	}

	for _, name := range safeZones {
		if err := lt.add(name, SafeZone); err != nil {
			return nil, err
		}
		lt.safeZones = append(lt.safeZones, name)
	}

	return lt, nil
}

func (lt *LabelTable) add(name string, c Category) error {

	if name == "" {
		return errors.New("label table contains an empty name")
	}

	if prev, ok := lt.categories[name]; ok {
		return errors.Errorf("label %q listed as both %s and %s", name, prev, c)
	}

	lt.categories[name] = c
	return nil
}

// DefaultLabelTable returns the built in LabelTable for COCO trained models
func DefaultLabelTable() *LabelTable {

	lt, err := NewLabelTable(DefaultHazardLabels, DefaultSafeZoneLabels)

	if err != nil {
		// the default lists are disjoint
		panic(err)
	}

	return lt
}

// labelTableFile is the JSON layout of a label table file
type labelTableFile struct {
	Hazards   []string `json:"hazards"`
	SafeZones []string `json:"safe_zones"`
}

// LoadLabelTable reads a LabelTable from a JSON file of the form
// {"hazards": [...], "safe_zones": [...]}
func LoadLabelTable(file string) (*LabelTable, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, errors.Wrap(err, "error reading label table")
	}

	var f labelTableFile

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "error parsing label table %s", file)
	}

	return NewLabelTable(f.Hazards, f.SafeZones)
}

// Category returns the category of the given label, Neutral when the label
// is not in the table
func (lt *LabelTable) Category(label string) Category {
	return lt.categories[label]
}

// HazardLabels returns a copy of the labels in the Hazard category
func (lt *LabelTable) HazardLabels() []string {
	return append([]string(nil), lt.hazards...)
}

// SafeZoneLabels returns a copy of the labels in the SafeZone category
func (lt *LabelTable) SafeZoneLabels() []string {
	return append([]string(nil), lt.safeZones...)
}
