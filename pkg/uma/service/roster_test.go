package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRosterStore_LoadJoinsFavouritesAndOrders(t *testing.T) {
	store, _, _ := newTestStore(testRecords(6), 5, 2)

	require.NoError(t, store.Load(context.Background()))

	roster := store.Roster()
	assert.Equal(t, []int{2, 5, 1, 3, 4, 6}, ids(roster))
	for _, entry := range roster {
		assert.Equal(t, entry.ID == 2 || entry.ID == 5, entry.IsFavourite, "id %d", entry.ID)
	}

	assert.Equal(t, uma.StatusLoaded, store.RosterState().Status)
	assert.Equal(t, uma.StatusLoaded, store.SparkState().Status)
	assert.Equal(t, 6, store.Count())
	assert.Len(t, store.Sparks(), len(testSparks()))
}

func TestRosterStore_LookupMapsMatchSequences(t *testing.T) {
	store, _, _ := newTestStore(testRecords(4))
	require.NoError(t, store.Load(context.Background()))

	byID := store.UmamusumeByID()
	require.Len(t, byID, store.Count())
	for _, entry := range store.Roster() {
		assert.Equal(t, entry.Umamusume, byID[entry.ID])
	}

	sparkByID := store.SparkByID()
	for _, s := range store.Sparks() {
		got, ok := store.Spark(s.ID)
		require.True(t, ok)
		assert.Equal(t, s, got)
		assert.Equal(t, s, sparkByID[s.ID])
	}

	// Returned maps are copies
	delete(byID, 1)
	_, ok := store.Umamusume(1)
	assert.True(t, ok)
}

func TestRosterStore_FavouritesLoadFailureDefaultsToNone(t *testing.T) {
	store, _, persistence := newTestStore(testRecords(4), 1, 3)
	persistence.FailLoad(errors.New("storage offline"))

	require.NoError(t, store.Load(context.Background()))

	for _, entry := range store.Roster() {
		assert.False(t, entry.IsFavourite)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids(store.Roster()))
}

func TestRosterStore_PartialFailureKeepsStaleData(t *testing.T) {
	ctx := context.Background()
	store, gateway, _ := newTestStore(testRecords(4))
	require.NoError(t, store.Load(ctx))
	firstLoad := store.SparkState().LoadedAt

	boom := errors.New("spark catalog down")
	gateway.setSparkErr(boom)

	err := store.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	sparkState := store.SparkState()
	assert.Equal(t, uma.StatusFailed, sparkState.Status)
	assert.ErrorIs(t, sparkState.Err, boom)
	assert.Equal(t, firstLoad, sparkState.LoadedAt)
	assert.Len(t, store.Sparks(), len(testSparks()), "stale sparks are kept, not cleared")

	assert.Equal(t, uma.StatusLoaded, store.RosterState().Status)
	assert.NoError(t, store.RosterState().Err)

	gateway.setSparkErr(nil)
	require.NoError(t, store.Load(ctx))
	assert.Equal(t, uma.StatusLoaded, store.SparkState().Status)
	assert.NoError(t, store.SparkState().Err)
}

func TestRosterStore_FailedFirstLoadIsEmpty(t *testing.T) {
	store, gateway, _ := newTestStore(testRecords(3))
	gateway.setRosterErr(errors.New("unreachable"))

	err := store.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, uma.StatusFailed, store.RosterState().Status)
	assert.Equal(t, 0, store.Count())
}

func TestRosterStore_StaleLoadIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store, gateway, _ := newTestStore(nil)

	oldRecords := testRecords(3)
	newRecords := testRecords(5)
	started := make(chan struct{})
	release := make(chan struct{})
	gateway.rosterFn = func(call int) ([]shared.Umamusume, error) {
		if call == 1 {
			close(started)
			<-release
			return oldRecords, nil
		}
		return newRecords, nil
	}

	firstDone := make(chan error, 1)
	go func() { firstDone <- store.Load(ctx) }()
	<-started

	require.NoError(t, store.Load(ctx))
	assert.Equal(t, 5, store.Count())

	close(release)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 5, store.Count(), "older load must not overwrite a newer commit")
	state := store.RosterState()
	assert.Equal(t, uint64(2), state.Generation)
	assert.Equal(t, uma.StatusLoaded, state.Status)
}

func TestRosterStore_ToggleFavouriteIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(4), 3)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.ToggleFavourite(ctx, 4))
	entry, _ := store.Umamusume(4)
	assert.True(t, entry.IsFavourite)
	assert.Equal(t, []int{3, 4}, persistence.Snapshot().IDs())
	assert.Equal(t, []int{3, 4, 1, 2}, ids(store.Roster()))

	require.NoError(t, store.ToggleFavourite(ctx, 4))
	entry, _ = store.Umamusume(4)
	assert.False(t, entry.IsFavourite)
	assert.Equal(t, []int{3}, persistence.Snapshot().IDs())
	assert.Equal(t, []int{3, 1, 2, 4}, ids(store.Roster()))
}

func TestRosterStore_ToggleFavouriteRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(4))
	require.NoError(t, store.Load(ctx))

	boom := errors.New("write refused")
	persistence.FailSave(boom)

	err := store.ToggleFavourite(ctx, 2)
	assert.ErrorIs(t, err, boom)

	entry, _ := store.Umamusume(2)
	assert.False(t, entry.IsFavourite)
	assert.Equal(t, 0, store.Favourites().Len())
	assert.Equal(t, 0, persistence.Snapshot().Len())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(store.Roster()))
}

func TestRosterStore_ToggleUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(3))
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.ToggleFavourite(ctx, 99))
	assert.Equal(t, 0, persistence.Saves())
	assert.Equal(t, 0, store.Favourites().Len())
}

func TestRosterStore_DeleteBelowMinimumIsRejected(t *testing.T) {
	ctx := context.Background()
	records := []shared.Umamusume{testRecord(7, 8, 9), testRecord(8, 7, 9), testRecord(9, 7, 8)}
	store, _, _ := newTestStore(records)
	require.NoError(t, store.Load(ctx))
	before := store.Roster()

	err := store.Delete(ctx, []int{7})
	assert.ErrorIs(t, err, shared.ErrRosterTooSmall)
	assert.Equal(t, 3, store.Count())
	assert.Equal(t, before, store.Roster())
}

func TestRosterStore_DeleteRemovesRecordsAndFavourites(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(6), 2, 4)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Delete(ctx, []int{2, 3, 3}))

	assert.Equal(t, 4, store.Count())
	_, ok := store.Umamusume(2)
	assert.False(t, ok)
	assert.Equal(t, []int{4}, store.Favourites().IDs())
	assert.Equal(t, []int{4}, persistence.Snapshot().IDs())
	assert.Equal(t, []int{4, 1, 5, 6}, ids(store.Roster()))
	assert.Len(t, store.UmamusumeByID(), 4)
}

func TestRosterStore_DeleteCountsDistinctRequestedIDs(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(testRecords(5))
	require.NoError(t, store.Load(ctx))

	// Two distinct ids would leave exactly three records
	require.NoError(t, store.Delete(ctx, []int{1, 1, 2}))
	assert.Equal(t, 3, store.Count())

	// Ids absent from the roster still count toward the minimum
	err := store.Delete(ctx, []int{3, 42})
	assert.ErrorIs(t, err, shared.ErrRosterTooSmall)
	assert.Equal(t, 3, store.Count())
}

func TestRosterStore_DeleteAbortsWhenFavouritesWriteFails(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(5), 1)
	require.NoError(t, store.Load(ctx))

	boom := errors.New("write refused")
	persistence.FailSave(boom)

	err := store.Delete(ctx, []int{1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, store.Count())
	assert.True(t, store.Favourites().Has(1))
}

func TestRosterStore_SaveUpdatesAndInserts(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(testRecords(4))
	require.NoError(t, store.Load(ctx))

	sel := shared.LoadoutSelection{
		Name:         "  Gold Ship  ",
		Sparks:       []shared.SparkReference{{SparkID: 2, Rarity: 1}, {SparkID: 11, Rarity: 3}, {SparkID: 30, Rarity: 2}},
		Inspiration1: shared.IntPtr(3),
		Inspiration2: shared.IntPtr(4),
	}

	updated, err := store.Save(1, sel)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Gold Ship", updated.Name)
	got, _ := store.Umamusume(1)
	assert.Equal(t, updated, got.Umamusume)

	inserted, err := store.Save(0, sel)
	require.NoError(t, err)
	assert.Equal(t, 5, inserted.ID)
	assert.Equal(t, 5, store.Count())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(store.Roster()))
}

func TestRosterStore_SaveRejectsInvalidLoadouts(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(testRecords(5))
	require.NoError(t, store.Load(ctx))

	valid := shared.LoadoutSelection{
		Name:         "Uma",
		Sparks:       []shared.SparkReference{{SparkID: 1, Rarity: 1}, {SparkID: 10, Rarity: 1}},
		Inspiration1: shared.IntPtr(2),
		Inspiration2: shared.IntPtr(3),
	}

	selfInspired := valid
	selfInspired.Inspiration1 = shared.IntPtr(1)
	_, err := store.Save(1, selfInspired)
	var validationErr *shared.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, service.RuleInspirations, validationErr.Rule)

	_, err = store.Save(99, valid)
	assert.ErrorIs(t, err, shared.ErrUnknownUmamusume)

	// An inspiration deleted mid-session fails re-validation at save time
	require.NoError(t, store.Delete(ctx, []int{3}))
	_, err = store.Save(1, valid)
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, service.RuleInspirationInRoster, validationErr.Rule)
	assert.Contains(t, validationErr.Message, "3")
}

// loadBehindMutation starts a Load whose roster fetch returns records and
// checks it cannot commit while a mutation is still writing favourites
func loadBehindMutation(t *testing.T, store *service.RosterStore, gateway *fakeGateway, records []shared.Umamusume) <-chan error {
	t.Helper()

	fetched := make(chan struct{})
	var once sync.Once
	gateway.setRosterFn(func(call int) ([]shared.Umamusume, error) {
		once.Do(func() { close(fetched) })
		return records, nil
	})

	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background()) }()
	<-fetched

	select {
	case err := <-done:
		t.Fatalf("load committed while a mutation was in flight (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}
	return done
}

func TestRosterStore_DeleteDuringLoadKeepsMinimum(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store, gateway, persistence := newGatedStore(testRecords(5), 1)
	require.NoError(t, store.Load(ctx))

	entered, release := persistence.holdNextSave()
	deleteDone := make(chan error, 1)
	go func() { deleteDone <- store.Delete(ctx, []int{1, 2}) }()
	<-entered

	loadDone := loadBehindMutation(t, store, gateway, testRecords(4))

	close(release)
	require.NoError(t, <-deleteDone)
	require.NoError(t, <-loadDone)

	assert.GreaterOrEqual(t, store.Count(), shared.MinRosterSize)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(store.Roster()), "the newer catalog replaces the client-local delete")
	assert.False(t, store.Favourites().Has(1), "favourites read before the delete are not adopted")
	assert.False(t, persistence.Snapshot().Has(1))
}

func TestRosterStore_ToggleDuringLoadIsKept(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store, gateway, persistence := newGatedStore(testRecords(4))
	require.NoError(t, store.Load(ctx))

	entered, release := persistence.holdNextSave()
	toggleDone := make(chan error, 1)
	go func() { toggleDone <- store.ToggleFavourite(ctx, 3) }()
	<-entered

	loadDone := loadBehindMutation(t, store, gateway, testRecords(4))

	close(release)
	require.NoError(t, <-toggleDone)
	require.NoError(t, <-loadDone)

	assert.True(t, store.Favourites().Has(3))
	assert.Equal(t, []int{3, 1, 2, 4}, ids(store.Roster()))
	assert.True(t, persistence.Snapshot().Has(3))
}

func TestRosterStore_SaveDuringLoadNeverCommitsMissingInspiration(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	withThree := testRecords(6)
	withoutThree := withoutID(withThree, 3)

	store, gateway, _ := newTestStore(withThree)
	require.NoError(t, store.Load(ctx))
	gateway.setRosterFn(func(call int) ([]shared.Umamusume, error) {
		if call%2 == 0 {
			return withoutThree, nil
		}
		return withThree, nil
	})

	sel := shared.LoadoutSelection{
		Name:         "Saved",
		Sparks:       []shared.SparkReference{{SparkID: 1, Rarity: 1}, {SparkID: 10, Rarity: 1}},
		Inspiration1: shared.IntPtr(3),
		Inspiration2: shared.IntPtr(4),
	}

	for i := 0; i < 50; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Load(ctx)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Save(5, sel)
		}()
		wg.Wait()

		byID := store.UmamusumeByID()
		record, ok := byID[5]
		require.True(t, ok)
		if record.Name != "Saved" {
			continue
		}
		for _, inspiration := range record.Inspirations() {
			_, present := byID[inspiration]
			require.True(t, present, "iteration %d: saved record points at missing inspiration %d", i, inspiration)
		}
	}
}

func TestRosterStore_MutationsBeforeLoadAreRejected(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(4))

	assert.ErrorIs(t, store.Delete(ctx, []int{1}), shared.ErrNotLoaded)

	_, err := store.Save(0, shared.LoadoutSelection{Name: "Early"})
	assert.ErrorIs(t, err, shared.ErrNotLoaded)
	assert.Zero(t, persistence.Saves())
}

func TestRosterStore_DeleteSkipsWriteWhenFavouritesUnchanged(t *testing.T) {
	ctx := context.Background()
	store, _, persistence := newTestStore(testRecords(5), 1)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Delete(ctx, []int{4}))
	assert.Zero(t, persistence.Saves())
	assert.Equal(t, 4, store.Count())

	require.NoError(t, store.Delete(ctx, []int{1}))
	assert.Equal(t, 1, persistence.Saves())
	assert.False(t, persistence.Snapshot().Has(1))
}
