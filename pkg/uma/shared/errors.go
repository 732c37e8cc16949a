package shared

import (
	"errors"
	"fmt"
)

// MinRosterSize is the smallest roster a delete may leave behind.
const MinRosterSize = 3

var (
	ErrRosterTooSmall   = fmt.Errorf("roster must keep at least %d records", MinRosterSize)
	ErrSelfInspiration  = errors.New("an umamusume cannot be its own inspiration")
	ErrUnknownUmamusume = errors.New("umamusume not found in roster")
	ErrNotLoaded        = errors.New("catalog has not been loaded")
	ErrReadOnly         = errors.New("loadout is read-only")
	ErrInvalidRarity    = fmt.Errorf("rarity must be between %d and %d", MinRarity, MaxRarity)
)

// ValidationError reports the first loadout rule that failed.
type ValidationError struct {
	Rule    int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("loadout rule %d: %s", e.Rule, e.Message)
}
