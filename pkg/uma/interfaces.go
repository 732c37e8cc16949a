package uma

import (
	"context"
	"time"

	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// DefaultFavouritesWriteTimeout bounds a single favourites write.
const DefaultFavouritesWriteTimeout = 5 * time.Second

// Service represents the main service that holds all dependencies
type Service struct {
	Gateway                CatalogGateway
	Favourites             FavouritesPersistence
	FavouritesWriteTimeout time.Duration
}

// CatalogGateway fetches the two remote catalogs
type CatalogGateway interface {
	FetchSparks(ctx context.Context) ([]shared.Spark, error)
	FetchUmamusumes(ctx context.Context) ([]shared.Umamusume, error)
}

// FavouritesPersistence is the durable favourites store.
// Load returns an empty set when nothing has been written yet.
type FavouritesPersistence interface {
	Load(ctx context.Context) (shared.FavouriteSet, error)
	Save(ctx context.Context, set shared.FavouriteSet) error
}

// FavouritesSynchronizerInterface is the blocking bridge between the store and persistence
type FavouritesSynchronizerInterface interface {
	Read(ctx context.Context) (shared.FavouriteSet, error)
	Write(ctx context.Context, set shared.FavouriteSet) error
}

// ResourceStatus is the load state of one store sub-resource
type ResourceStatus int

const (
	StatusIdle ResourceStatus = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s ResourceStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ResourceState describes the last settled load of a sub-resource.
// Data from an earlier successful load is kept while Status is Failed.
type ResourceState struct {
	Status     ResourceStatus
	Err        error
	Generation uint64
	LoadedAt   time.Time
}

// RosterReader exposes the read side of the roster store
type RosterReader interface {
	Roster() []shared.RosterEntry
	Sparks() []shared.Spark
	Umamusume(id int) (shared.RosterEntry, bool)
	Spark(id int) (shared.Spark, bool)
	SparkByID() map[int]shared.Spark
	UmamusumeByID() map[int]shared.Umamusume
	Count() int
	Favourites() shared.FavouriteSet
	RosterState() ResourceState
	SparkState() ResourceState
}

// RosterStoreInterface defines the roster store operations
type RosterStoreInterface interface {
	RosterReader
	Load(ctx context.Context) error
	ToggleFavourite(ctx context.Context, id int) error
	Delete(ctx context.Context, ids []int) error
	Save(id int, sel shared.LoadoutSelection) (shared.Umamusume, error)
}

// RefreshSchedulerInterface defines scheduled catalog reloads
type RefreshSchedulerInterface interface {
	Start()
	Stop()
	RunNow(ctx context.Context) error
	GetSchedule() string
	GetNextRun() time.Time
	IsRunning() bool
}

// NewService creates a new Service instance with all dependencies
func NewService(gateway CatalogGateway, favourites FavouritesPersistence) *Service {
	return &Service{
		Gateway:                gateway,
		Favourites:             favourites,
		FavouritesWriteTimeout: DefaultFavouritesWriteTimeout,
	}
}
