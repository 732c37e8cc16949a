package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"golang.org/x/sync/errgroup"
)

// RosterStore is the in-memory roster and spark catalog joined with the favourite set.
//
// opMu serializes mutations (toggle, delete, save), including their persistence
// round trip, with the commits of catalog loads. mu guards the committed state
// and is never held across I/O.
type RosterStore struct {
	service *uma.Service
	favSync uma.FavouritesSynchronizerInterface

	logger       logging.Logger
	rosterLogger *logging.StoreLogger
	sparkLogger  *logging.StoreLogger

	opMu sync.Mutex

	mu            sync.RWMutex
	roster        []shared.Umamusume
	sparks        []shared.Spark
	sparkByID     map[int]shared.Spark
	umamusumeByID map[int]shared.Umamusume
	favourites    shared.FavouriteSet
	rosterState   uma.ResourceState
	sparkState    uma.ResourceState
	// generation is the newest load issued; favouritesVersion counts committed favourite mutations
	generation        uint64
	favouritesVersion uint64
}

var _ uma.RosterStoreInterface = (*RosterStore)(nil)

// NewRosterStore creates an empty store over the service's gateway and favourites persistence
func NewRosterStore(s *uma.Service) *RosterStore {
	factory := logging.GetGlobalLoggerFactory()
	base := factory.CreateLogger("store")

	return &RosterStore{
		service:       s,
		favSync:       NewFavouritesSynchronizer(s),
		logger:        factory.CreateStoreLogger("roster"),
		rosterLogger:  logging.NewStoreLogger(base, "umamusumes"),
		sparkLogger:   logging.NewStoreLogger(base, "sparks"),
		sparkByID:     make(map[int]shared.Spark),
		umamusumeByID: make(map[int]shared.Umamusume),
		favourites:    shared.NewFavouriteSet(),
	}
}

// Load fetches both catalogs concurrently and commits each result unless a newer load settled first.
// The returned error joins the failures of both fetches.
func (rs *RosterStore) Load(ctx context.Context) error {
	rs.mu.Lock()
	rs.generation++
	gen := rs.generation
	favVersion := rs.favouritesVersion
	rs.rosterState.Status = uma.StatusLoading
	rs.sparkState.Status = uma.StatusLoading
	rs.mu.Unlock()

	requestID := uuid.NewString()
	rs.logger.Info("Catalog load started", map[string]interface{}{
		"generation": gen,
		"request_id": requestID,
	})

	var sparkErr, rosterErr error
	var g errgroup.Group

	g.Go(func() error {
		sparks, err := rs.service.Gateway.FetchSparks(ctx)
		sparkErr = rs.commitSparks(gen, sparks, err)
		return nil
	})

	g.Go(func() error {
		records, err := rs.service.Gateway.FetchUmamusumes(ctx)
		if err != nil {
			rosterErr = rs.commitRoster(gen, favVersion, nil, nil, err)
			return nil
		}

		favourites, favErr := rs.favSync.Read(ctx)
		if favErr != nil {
			rs.rosterLogger.WithGeneration(gen).Warn("Favourites unavailable, defaulting to none", map[string]interface{}{
				"error":      favErr.Error(),
				"request_id": requestID,
			})
			favourites = shared.NewFavouriteSet()
		}

		rosterErr = rs.commitRoster(gen, favVersion, records, favourites, nil)
		return nil
	})

	_ = g.Wait()

	err := errors.Join(sparkErr, rosterErr)
	if err != nil {
		rs.logger.Error("Catalog load failed", err, map[string]interface{}{
			"generation": gen,
			"request_id": requestID,
		})
	} else {
		rs.logger.Info("Catalog load finished", map[string]interface{}{
			"generation": gen,
			"request_id": requestID,
		})
	}
	return err
}

// commitSparks applies a spark fetch result for generation gen. It waits for
// any in-flight mutation so a commit never lands inside one.
func (rs *RosterStore) commitSparks(gen uint64, sparks []shared.Spark, fetchErr error) error {
	rs.opMu.Lock()
	defer rs.opMu.Unlock()
	rs.mu.Lock()
	defer rs.mu.Unlock()

	logger := rs.sparkLogger.WithGeneration(gen)
	if gen <= rs.sparkState.Generation {
		logger.Warn("Discarding stale spark catalog result", map[string]interface{}{
			"committed_generation": rs.sparkState.Generation,
		})
		return nil
	}

	rs.sparkState.Generation = gen
	rs.sparkState.Status = rs.settledStatus(gen, fetchErr)
	if fetchErr != nil {
		rs.sparkState.Err = fetchErr
		logger.Error("Spark catalog fetch failed", fetchErr, nil)
		return fmt.Errorf("sparks: %w", fetchErr)
	}

	byID := make(map[int]shared.Spark, len(sparks))
	for _, s := range sparks {
		byID[s.ID] = s
	}
	rs.sparks = append([]shared.Spark(nil), sparks...)
	rs.sparkByID = byID
	rs.sparkState.Err = nil
	rs.sparkState.LoadedAt = time.Now()

	logger.Info("Spark catalog committed", map[string]interface{}{
		"count": len(sparks),
	})
	return nil
}

// commitRoster applies a roster fetch result for generation gen. The favourite
// set read during the load is only adopted if no mutation committed since.
// Like commitSparks it is serialized with mutations through opMu.
func (rs *RosterStore) commitRoster(gen, favVersion uint64, records []shared.Umamusume, favourites shared.FavouriteSet, fetchErr error) error {
	rs.opMu.Lock()
	defer rs.opMu.Unlock()
	rs.mu.Lock()
	defer rs.mu.Unlock()

	logger := rs.rosterLogger.WithGeneration(gen)
	if gen <= rs.rosterState.Generation {
		logger.Warn("Discarding stale roster result", map[string]interface{}{
			"committed_generation": rs.rosterState.Generation,
		})
		return nil
	}

	rs.rosterState.Generation = gen
	rs.rosterState.Status = rs.settledStatus(gen, fetchErr)
	if fetchErr != nil {
		rs.rosterState.Err = fetchErr
		logger.Error("Roster fetch failed", fetchErr, nil)
		return fmt.Errorf("umamusumes: %w", fetchErr)
	}

	if favVersion == rs.favouritesVersion {
		rs.favourites = favourites.Clone()
	} else {
		logger.Debug("Keeping favourites changed during load", map[string]interface{}{
			"favourites_version": rs.favouritesVersion,
		})
	}

	roster := make([]shared.Umamusume, 0, len(records))
	for _, r := range records {
		roster = append(roster, r.Clone())
	}
	rs.roster = roster
	rs.reindexLocked()
	rs.rosterState.Err = nil
	rs.rosterState.LoadedAt = time.Now()

	logger.Info("Roster committed", map[string]interface{}{
		"count":            len(roster),
		"favourites_count": rs.favourites.Len(),
	})
	return nil
}

// settledStatus keeps Loading while a newer load is still in flight
func (rs *RosterStore) settledStatus(gen uint64, err error) uma.ResourceStatus {
	if gen < rs.generation {
		return uma.StatusLoading
	}
	if err != nil {
		return uma.StatusFailed
	}
	return uma.StatusLoaded
}

// reindexLocked re-sorts the roster and rebuilds the id map. Callers hold mu.
func (rs *RosterStore) reindexLocked() {
	sortRoster(rs.roster, rs.favourites)

	byID := make(map[int]shared.Umamusume, len(rs.roster))
	for _, u := range rs.roster {
		byID[u.ID] = u
	}
	rs.umamusumeByID = byID
}

// sortRoster orders favourites first, then by ascending id within each group
func sortRoster(roster []shared.Umamusume, favourites shared.FavouriteSet) {
	sort.SliceStable(roster, func(i, j int) bool {
		fi, fj := favourites.Has(roster[i].ID), favourites.Has(roster[j].ID)
		if fi != fj {
			return fi
		}
		return roster[i].ID < roster[j].ID
	})
}

// ToggleFavourite flips id's favourite flag and persists the set before committing.
// An id absent from the roster is a no-op. On a failed write nothing changes.
func (rs *RosterStore) ToggleFavourite(ctx context.Context, id int) error {
	rs.opMu.Lock()
	defer rs.opMu.Unlock()

	rs.mu.RLock()
	_, exists := rs.umamusumeByID[id]
	next := rs.favourites.Clone()
	rs.mu.RUnlock()

	logger := rs.logger.WithContext(map[string]interface{}{"umamusume_id": id})
	if !exists {
		logger.Debug("Ignoring favourite toggle for unknown id", nil)
		return nil
	}

	favourite := !next.Has(id)
	if favourite {
		next.Add(id)
	} else {
		next.Remove(id)
	}

	if err := rs.favSync.Write(ctx, next); err != nil {
		logger.Error("Favourite toggle rolled back", err, map[string]interface{}{
			"favourite": favourite,
		})
		return fmt.Errorf("toggle favourite %d: %w", id, err)
	}

	rs.mu.Lock()
	rs.favourites = next
	rs.favouritesVersion++
	rs.reindexLocked()
	rs.mu.Unlock()

	logger.Info("Favourite toggled", map[string]interface{}{
		"favourite": favourite,
	})
	return nil
}

// Delete removes every record in ids, or nothing at all. It is refused when
// the roster would drop below shared.MinRosterSize; every distinct requested
// id counts toward that check. Deleted ids leave the favourite set, and a
// failed favourites write aborts the delete.
func (rs *RosterStore) Delete(ctx context.Context, ids []int) error {
	rs.opMu.Lock()
	defer rs.opMu.Unlock()

	distinct := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}
	if len(distinct) == 0 {
		return nil
	}

	rs.mu.RLock()
	loaded := !rs.rosterState.LoadedAt.IsZero()
	count := len(rs.roster)
	current := rs.favourites
	rs.mu.RUnlock()

	if !loaded {
		return fmt.Errorf("delete: %w", shared.ErrNotLoaded)
	}
	if count-len(distinct) < shared.MinRosterSize {
		rs.logger.Warn("Delete rejected", map[string]interface{}{
			"roster_count":  count,
			"delete_count":  len(distinct),
			"minimum_count": shared.MinRosterSize,
		})
		return fmt.Errorf("delete %d of %d records: %w", len(distinct), count, shared.ErrRosterTooSmall)
	}

	next := current.Clone()
	for id := range distinct {
		next.Remove(id)
	}
	changed := !next.Equal(current)
	if changed {
		if err := rs.favSync.Write(ctx, next); err != nil {
			rs.logger.Error("Delete aborted, favourites not persisted", err, map[string]interface{}{
				"delete_count": len(distinct),
			})
			return fmt.Errorf("delete: %w", err)
		}
	}

	rs.mu.Lock()
	kept := rs.roster[:0:0]
	for _, u := range rs.roster {
		if _, drop := distinct[u.ID]; !drop {
			kept = append(kept, u)
		}
	}
	removed := len(rs.roster) - len(kept)
	rs.roster = kept
	if changed {
		rs.favourites = next
		rs.favouritesVersion++
	}
	rs.reindexLocked()
	rs.mu.Unlock()

	rs.logger.Info("Records deleted", map[string]interface{}{
		"requested_count": len(distinct),
		"removed_count":   removed,
	})
	return nil
}

// Save applies a loadout to record id, or inserts a new record when id is 0.
// The selection is validated against the current catalog and both
// inspirations must still be present in the roster.
func (rs *RosterStore) Save(id int, sel shared.LoadoutSelection) (shared.Umamusume, error) {
	rs.opMu.Lock()
	defer rs.opMu.Unlock()

	rs.mu.RLock()
	loaded := !rs.rosterState.LoadedAt.IsZero() && !rs.sparkState.LoadedAt.IsZero()
	_, exists := rs.umamusumeByID[id]
	sparkByID := rs.sparkByID
	umamusumeByID := rs.umamusumeByID
	rs.mu.RUnlock()

	if !loaded {
		return shared.Umamusume{}, fmt.Errorf("save %d: %w", id, shared.ErrNotLoaded)
	}
	if id != 0 && !exists {
		return shared.Umamusume{}, fmt.Errorf("save %d: %w", id, shared.ErrUnknownUmamusume)
	}

	sel.OwnerID = nil
	if id != 0 {
		sel.OwnerID = shared.IntPtr(id)
	}

	if result := ValidateLoadout(sel, sparkByID); !result.Valid {
		return shared.Umamusume{}, result.Err()
	}
	for _, inspiration := range sel.InspirationIDs() {
		if _, ok := umamusumeByID[inspiration]; !ok {
			return shared.Umamusume{}, &shared.ValidationError{
				Rule:    RuleInspirationInRoster,
				Message: fmt.Sprintf("inspiration %d is no longer in the roster", inspiration),
			}
		}
	}

	record := shared.Umamusume{
		ID:             id,
		Name:           strings.TrimSpace(sel.Name),
		Sparks:         append([]shared.SparkReference(nil), sel.Sparks...),
		InspirationID1: *sel.Inspiration1,
		InspirationID2: *sel.Inspiration2,
	}

	rs.mu.Lock()
	if record.ID == 0 {
		record.ID = rs.nextIDLocked()
		rs.roster = append(rs.roster, record)
	} else {
		for i := range rs.roster {
			if rs.roster[i].ID == record.ID {
				rs.roster[i] = record
				break
			}
		}
	}
	rs.reindexLocked()
	rs.mu.Unlock()

	rs.logger.Info("Loadout saved", map[string]interface{}{
		"umamusume_id": record.ID,
		"inserted":     id == 0,
		"sparks_count": len(record.Sparks),
	})
	return record.Clone(), nil
}

func (rs *RosterStore) nextIDLocked() int {
	maxID := 0
	for _, u := range rs.roster {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}

// Roster returns the display-ordered roster with favourite flags joined in
func (rs *RosterStore) Roster() []shared.RosterEntry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	entries := make([]shared.RosterEntry, 0, len(rs.roster))
	for _, u := range rs.roster {
		entries = append(entries, shared.RosterEntry{
			Umamusume:   u.Clone(),
			IsFavourite: rs.favourites.Has(u.ID),
		})
	}
	return entries
}

// Sparks returns the spark catalog in catalog order
func (rs *RosterStore) Sparks() []shared.Spark {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]shared.Spark(nil), rs.sparks...)
}

func (rs *RosterStore) Umamusume(id int) (shared.RosterEntry, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	u, ok := rs.umamusumeByID[id]
	if !ok {
		return shared.RosterEntry{}, false
	}
	return shared.RosterEntry{Umamusume: u.Clone(), IsFavourite: rs.favourites.Has(id)}, true
}

func (rs *RosterStore) Spark(id int) (shared.Spark, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	s, ok := rs.sparkByID[id]
	return s, ok
}

// SparkByID returns a copy of the spark lookup map
func (rs *RosterStore) SparkByID() map[int]shared.Spark {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make(map[int]shared.Spark, len(rs.sparkByID))
	for id, s := range rs.sparkByID {
		out[id] = s
	}
	return out
}

// UmamusumeByID returns a copy of the roster lookup map
func (rs *RosterStore) UmamusumeByID() map[int]shared.Umamusume {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make(map[int]shared.Umamusume, len(rs.umamusumeByID))
	for id, u := range rs.umamusumeByID {
		out[id] = u.Clone()
	}
	return out
}

func (rs *RosterStore) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.roster)
}

// Favourites returns a copy of the committed favourite set
func (rs *RosterStore) Favourites() shared.FavouriteSet {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.favourites.Clone()
}

func (rs *RosterStore) RosterState() uma.ResourceState {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.rosterState
}

func (rs *RosterStore) SparkState() uma.ResourceState {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.sparkState
}
