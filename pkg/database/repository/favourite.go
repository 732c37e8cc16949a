package repository

import (
	"context"
	"fmt"

	"github.com/latoulicious/umaroster/pkg/database/models"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"gorm.io/gorm"
)

// FavouriteRepository persists the favourite set in the favourites table
type FavouriteRepository struct {
	db     *gorm.DB
	mapper *shared.FavouriteMapper
}

func NewFavouriteRepository(db *gorm.DB) *FavouriteRepository {
	return &FavouriteRepository{db: db, mapper: shared.NewFavouriteMapper()}
}

// Load returns every persisted favourite; an empty table yields an empty set
func (r *FavouriteRepository) Load(ctx context.Context) (shared.FavouriteSet, error) {
	var rows []models.Favourite
	if err := r.db.WithContext(ctx).Order("umamusume_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load favourites: %w", err)
	}
	return r.mapper.ToShared(rows), nil
}

// Save replaces the persisted set in one transaction
func (r *FavouriteRepository) Save(ctx context.Context, set shared.FavouriteSet) error {
	rows := r.mapper.ToDatabase(set)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Favourite{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save favourites: %w", err)
	}
	return nil
}
