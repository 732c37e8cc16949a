package service

import (
	"fmt"

	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// EditorMode selects what an editing session may do
type EditorMode int

const (
	EditorCreate EditorMode = iota
	EditorEdit
	EditorView
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreate:
		return "create"
	case EditorEdit:
		return "edit"
	default:
		return "view"
	}
}

// Editor is one loadout editing session over a roster store.
// The selection is discarded if the session is dropped without Save.
type Editor struct {
	store             uma.RosterStoreInterface
	mode              EditorMode
	id                int
	selection         shared.LoadoutSelection
	sparkPicker       *Picker[int]
	inspirationPicker *Picker[int]
}

// NewEditor opens a session. id is ignored in create mode and must exist otherwise.
func NewEditor(store uma.RosterStoreInterface, mode EditorMode, id int) (*Editor, error) {
	e := &Editor{
		store:             store,
		mode:              mode,
		sparkPicker:       NewSparkPicker(),
		inspirationPicker: NewInspirationPicker(),
	}

	if mode == EditorCreate {
		return e, nil
	}

	entry, ok := store.Umamusume(id)
	if !ok {
		return nil, fmt.Errorf("open editor for %d: %w", id, shared.ErrUnknownUmamusume)
	}
	e.id = id
	e.selection = shared.SelectionFrom(entry.Umamusume)
	return e, nil
}

func (e *Editor) Mode() EditorMode {
	return e.mode
}

// ID is the record being edited; 0 until a create session is saved
func (e *Editor) ID() int {
	return e.id
}

func (e *Editor) ReadOnly() bool {
	return e.mode == EditorView
}

// Selection returns a copy of the current loadout
func (e *Editor) Selection() shared.LoadoutSelection {
	sel := e.selection
	sel.Sparks = append([]shared.SparkReference(nil), e.selection.Sparks...)
	return sel
}

func (e *Editor) SetName(name string) error {
	if e.ReadOnly() {
		return shared.ErrReadOnly
	}
	e.selection.Name = name
	return nil
}

// OpenSparkPicker seeds the spark picker from the current selection
func (e *Editor) OpenSparkPicker() *Picker[int] {
	e.sparkPicker.Reset(e.selection.SparkIDs())
	return e.sparkPicker
}

// ApplySparkPicker copies the picker back into the loadout. Sparks already
// in the loadout keep their rarity; newly picked sparks start at MinRarity.
func (e *Editor) ApplySparkPicker() error {
	if e.ReadOnly() {
		return shared.ErrReadOnly
	}

	rarity := make(map[int]int, len(e.selection.Sparks))
	for _, ref := range e.selection.Sparks {
		rarity[ref.SparkID] = ref.Rarity
	}

	picked := e.sparkPicker.Selected()
	sparks := make([]shared.SparkReference, 0, len(picked))
	for _, id := range picked {
		r, ok := rarity[id]
		if !ok {
			r = shared.MinRarity
		}
		sparks = append(sparks, shared.SparkReference{SparkID: id, Rarity: r})
	}
	e.selection.Sparks = sparks
	return nil
}

// SetRarity sets the star rating of a selected spark
func (e *Editor) SetRarity(sparkID, rarity int) error {
	if e.ReadOnly() {
		return shared.ErrReadOnly
	}
	if rarity < shared.MinRarity || rarity > shared.MaxRarity {
		return fmt.Errorf("spark %d: %w", sparkID, shared.ErrInvalidRarity)
	}
	for i := range e.selection.Sparks {
		if e.selection.Sparks[i].SparkID == sparkID {
			e.selection.Sparks[i].Rarity = rarity
			return nil
		}
	}
	return fmt.Errorf("spark %d is not selected", sparkID)
}

// Candidates lists the records that may be picked as inspirations
func (e *Editor) Candidates() []shared.RosterEntry {
	roster := e.store.Roster()
	out := make([]shared.RosterEntry, 0, len(roster))
	for _, entry := range roster {
		if entry.ID != e.id {
			out = append(out, entry)
		}
	}
	return out
}

// OpenInspirationPicker seeds the inspiration picker from the current selection
func (e *Editor) OpenInspirationPicker() *Picker[int] {
	e.inspirationPicker.Reset(e.selection.InspirationIDs())
	return e.inspirationPicker
}

// ApplyInspirationPicker assigns the picked records to the two slots in roster display order
func (e *Editor) ApplyInspirationPicker() error {
	if e.ReadOnly() {
		return shared.ErrReadOnly
	}

	var slots []int
	for _, entry := range e.store.Roster() {
		if e.inspirationPicker.Contains(entry.ID) {
			slots = append(slots, entry.ID)
		}
	}

	e.selection.Inspiration1, e.selection.Inspiration2 = nil, nil
	if len(slots) > 0 {
		e.selection.Inspiration1 = shared.IntPtr(slots[0])
	}
	if len(slots) > 1 {
		e.selection.Inspiration2 = shared.IntPtr(slots[1])
	}
	return nil
}

// Validate checks the current selection against the store's spark catalog
func (e *Editor) Validate() ValidationResult {
	sel := e.Selection()
	if e.id != 0 {
		sel.OwnerID = shared.IntPtr(e.id)
	}
	return ValidateLoadout(sel, e.store.SparkByID())
}

func (e *Editor) CanSave() bool {
	return !e.ReadOnly() && e.Validate().Valid
}

// Save commits the loadout. A saved create session continues in edit mode.
func (e *Editor) Save() (shared.Umamusume, error) {
	if e.ReadOnly() {
		return shared.Umamusume{}, shared.ErrReadOnly
	}

	saved, err := e.store.Save(e.id, e.Selection())
	if err != nil {
		return shared.Umamusume{}, err
	}

	e.id = saved.ID
	e.mode = EditorEdit
	e.selection = shared.SelectionFrom(saved)
	return saved, nil
}
