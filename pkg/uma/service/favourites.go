package service

import (
	"context"
	"fmt"

	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// FavouritesSynchronizer blocks the caller until persistence has answered
type FavouritesSynchronizer struct {
	service *uma.Service
	logger  logging.Logger
}

var _ uma.FavouritesSynchronizerInterface = (*FavouritesSynchronizer)(nil)

func NewFavouritesSynchronizer(s *uma.Service) uma.FavouritesSynchronizerInterface {
	return &FavouritesSynchronizer{
		service: s,
		logger:  logging.GetGlobalLoggerFactory().CreateStoreLogger("favourites"),
	}
}

// Read returns the persisted set; a nil set from persistence reads as empty
func (fs *FavouritesSynchronizer) Read(ctx context.Context) (shared.FavouriteSet, error) {
	set, err := fs.service.Favourites.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read favourites: %w", err)
	}
	if set == nil {
		set = shared.NewFavouriteSet()
	}
	return set, nil
}

// Write persists set and returns only once the write is acknowledged or failed
func (fs *FavouritesSynchronizer) Write(ctx context.Context, set shared.FavouriteSet) error {
	if timeout := fs.service.FavouritesWriteTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := fs.service.Favourites.Save(ctx, set.Clone()); err != nil {
		fs.logger.Error("Favourites write failed", err, map[string]interface{}{
			"favourites_count": set.Len(),
		})
		return fmt.Errorf("failed to write favourites: %w", err)
	}

	fs.logger.Debug("Favourites written", map[string]interface{}{
		"favourites_count": set.Len(),
	})
	return nil
}
