package shared

import (
	"fmt"
	"strings"
)

// Category is the closed set of spark categories.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryStat
	CategoryAptitude
	CategorySkill
	CategoryUniqueSkill
)

// Rarity bounds for a spark reference (star rating).
const (
	MinRarity = 1
	MaxRarity = 3
)

var categoryWireNames = map[Category]string{
	CategoryStat:        "stat",
	CategoryAptitude:    "aptitude",
	CategorySkill:       "skill",
	CategoryUniqueSkill: "unique_skill",
}

var categoryLabels = map[Category]string{
	CategoryStat:        "Stat",
	CategoryAptitude:    "Aptitude",
	CategorySkill:       "Skill",
	CategoryUniqueSkill: "Unique Skill",
}

// ParseCategory maps the catalog "type" value onto a Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryWireNames {
		if name == key {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown spark type %q", s)
}

// String returns the wire name of the category.
func (c Category) String() string {
	if name, ok := categoryWireNames[c]; ok {
		return name
	}
	return "unknown"
}

// Label returns a human-readable category name.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Unknown"
}

// Spark is an immutable catalog trait.
type Spark struct {
	ID          int
	Name        string
	Description string
	Category    Category
}

// SparkReference points at a catalog spark with a 1-3 star rarity.
type SparkReference struct {
	SparkID int
	Rarity  int
}

// Umamusume is a roster record as fetched from the catalog or saved locally.
// The favourite flag is deliberately absent; see RosterEntry.
type Umamusume struct {
	ID             int
	Name           string
	Sparks         []SparkReference
	InspirationID1 int
	InspirationID2 int
}

// Clone returns a deep copy so callers cannot mutate store-owned slices.
func (u Umamusume) Clone() Umamusume {
	out := u
	if u.Sparks != nil {
		out.Sparks = make([]SparkReference, len(u.Sparks))
		copy(out.Sparks, u.Sparks)
	}
	return out
}

// Inspirations returns the set inspiration ids in slot order.
func (u Umamusume) Inspirations() []int {
	var ids []int
	if u.InspirationID1 != 0 {
		ids = append(ids, u.InspirationID1)
	}
	if u.InspirationID2 != 0 {
		ids = append(ids, u.InspirationID2)
	}
	return ids
}

// RosterEntry joins a catalog record with the favourite set at read time.
type RosterEntry struct {
	Umamusume
	IsFavourite bool
}

// LoadoutSelection is the transient state of one edit session.
type LoadoutSelection struct {
	Name         string
	Sparks       []SparkReference
	Inspiration1 *int
	Inspiration2 *int
	// OwnerID is the id of the record being edited; nil for a new record.
	OwnerID *int
}

// SelectionFrom seeds a LoadoutSelection from an existing record.
func SelectionFrom(u Umamusume) LoadoutSelection {
	sel := LoadoutSelection{
		Name:    u.Name,
		Sparks:  u.Clone().Sparks,
		OwnerID: IntPtr(u.ID),
	}
	if u.InspirationID1 != 0 {
		sel.Inspiration1 = IntPtr(u.InspirationID1)
	}
	if u.InspirationID2 != 0 {
		sel.Inspiration2 = IntPtr(u.InspirationID2)
	}
	return sel
}

// SparkIDs returns the selected spark ids in order.
func (s LoadoutSelection) SparkIDs() []int {
	ids := make([]int, 0, len(s.Sparks))
	for _, ref := range s.Sparks {
		ids = append(ids, ref.SparkID)
	}
	return ids
}

// InspirationIDs returns the chosen inspiration ids, skipping empty slots.
func (s LoadoutSelection) InspirationIDs() []int {
	var ids []int
	if s.Inspiration1 != nil {
		ids = append(ids, *s.Inspiration1)
	}
	if s.Inspiration2 != nil {
		ids = append(ids, *s.Inspiration2)
	}
	return ids
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
