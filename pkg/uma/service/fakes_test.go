package service_test

import (
	"context"
	"sync"

	"github.com/latoulicious/umaroster/pkg/cache"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// fakeGateway serves fixed catalogs; the fn hooks override them per call (1-based)
type fakeGateway struct {
	mu          sync.Mutex
	sparks      []shared.Spark
	records     []shared.Umamusume
	sparkErr    error
	rosterErr   error
	sparkCalls  int
	rosterCalls int
	rosterFn    func(call int) ([]shared.Umamusume, error)
}

func (g *fakeGateway) FetchSparks(ctx context.Context) ([]shared.Spark, error) {
	g.mu.Lock()
	g.sparkCalls++
	sparks, err := g.sparks, g.sparkErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return append([]shared.Spark(nil), sparks...), nil
}

func (g *fakeGateway) FetchUmamusumes(ctx context.Context) ([]shared.Umamusume, error) {
	g.mu.Lock()
	g.rosterCalls++
	call := g.rosterCalls
	fn := g.rosterFn
	records, err := g.records, g.rosterErr
	g.mu.Unlock()

	if fn != nil {
		return fn(call)
	}
	if err != nil {
		return nil, err
	}
	out := make([]shared.Umamusume, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (g *fakeGateway) setSparkErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sparkErr = err
}

func (g *fakeGateway) setRosterErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rosterErr = err
}

var _ uma.CatalogGateway = (*fakeGateway)(nil)

// Spark ids: 1-2 Stat, 10-11 Aptitude, 20-21 Skill, 30-33 Unique Skill
func testSparks() []shared.Spark {
	return []shared.Spark{
		{ID: 1, Name: "Speed", Category: shared.CategoryStat},
		{ID: 2, Name: "Stamina", Category: shared.CategoryStat},
		{ID: 10, Name: "Turf", Category: shared.CategoryAptitude},
		{ID: 11, Name: "Dirt", Category: shared.CategoryAptitude},
		{ID: 20, Name: "Corner Recovery", Category: shared.CategorySkill},
		{ID: 21, Name: "Straightaway Adept", Category: shared.CategorySkill},
		{ID: 30, Name: "Shooting Star", Category: shared.CategoryUniqueSkill},
		{ID: 31, Name: "Red Shift", Category: shared.CategoryUniqueSkill},
		{ID: 32, Name: "Victoria por plancha", Category: shared.CategoryUniqueSkill},
		{ID: 33, Name: "Triumphant Pulse", Category: shared.CategoryUniqueSkill},
	}
}

func testRecord(id, insp1, insp2 int) shared.Umamusume {
	return shared.Umamusume{
		ID:             id,
		Name:           "Uma " + string(rune('A'+id-1)),
		Sparks:         []shared.SparkReference{{SparkID: 1, Rarity: 3}, {SparkID: 10, Rarity: 2}},
		InspirationID1: insp1,
		InspirationID2: insp2,
	}
}

// testRecords returns n records whose inspirations point at their neighbours
func testRecords(n int) []shared.Umamusume {
	records := make([]shared.Umamusume, 0, n)
	for id := 1; id <= n; id++ {
		insp1 := id%n + 1
		insp2 := (id+1)%n + 1
		records = append(records, testRecord(id, insp1, insp2))
	}
	return records
}

func newTestStore(records []shared.Umamusume, favourites ...int) (*service.RosterStore, *fakeGateway, *cache.MemoryFavourites) {
	gateway := &fakeGateway{sparks: testSparks(), records: records}
	persistence := cache.NewMemoryFavourites(favourites...)
	store := service.NewRosterStore(uma.NewService(gateway, persistence))
	return store, gateway, persistence
}

func ids(entries []shared.RosterEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

// gatedFavourites holds one Save open until the test releases it
type gatedFavourites struct {
	*cache.MemoryFavourites

	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
}

var _ uma.FavouritesPersistence = (*gatedFavourites)(nil)

// holdNextSave makes the next Save signal entered and then wait for release to close
func (g *gatedFavourites) holdNextSave() (entered <-chan struct{}, release chan<- struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
	return g.entered, g.release
}

func (g *gatedFavourites) Save(ctx context.Context, set shared.FavouriteSet) error {
	g.mu.Lock()
	entered, release := g.entered, g.release
	g.entered, g.release = nil, nil
	g.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return g.MemoryFavourites.Save(ctx, set)
}

func newGatedStore(records []shared.Umamusume, favourites ...int) (*service.RosterStore, *fakeGateway, *gatedFavourites) {
	gateway := &fakeGateway{sparks: testSparks(), records: records}
	persistence := &gatedFavourites{MemoryFavourites: cache.NewMemoryFavourites(favourites...)}
	store := service.NewRosterStore(uma.NewService(gateway, persistence))
	return store, gateway, persistence
}

func (g *fakeGateway) setRosterFn(fn func(call int) ([]shared.Umamusume, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rosterFn = fn
}

func withoutID(records []shared.Umamusume, id int) []shared.Umamusume {
	out := make([]shared.Umamusume, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
