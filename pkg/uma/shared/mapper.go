package shared

import (
	"fmt"
	"time"

	"github.com/latoulicious/umaroster/pkg/database/models"
)

// SparkCatalogResponse is the spark catalog envelope.
// Sparks is a pointer so a missing key can be told apart from an empty list.
type SparkCatalogResponse struct {
	Sparks *[]SparkDTO `json:"sparks"`
}

// SparkDTO is one spark as served by the catalog.
type SparkDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// UmamusumeCatalogResponse is the umamusume catalog envelope.
type UmamusumeCatalogResponse struct {
	Properties *[]UmamusumeDTO `json:"properties"`
}

// UmamusumeDTO is one roster record as served by the catalog.
type UmamusumeDTO struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Sparks         []SparkRefDTO `json:"sparks"`
	InspirationID1 int           `json:"inspiration_id_1"`
	InspirationID2 int           `json:"inspiration_id_2"`
}

// SparkRefDTO is a spark reference inside a roster record.
type SparkRefDTO struct {
	Spark  int `json:"spark"`
	Rarity int `json:"rarity"`
}

// SparkMapper handles conversion between catalog and domain sparks
type SparkMapper struct{}

// NewSparkMapper creates a new spark mapper
func NewSparkMapper() *SparkMapper {
	return &SparkMapper{}
}

// ToDomain converts catalog sparks, rejecting unknown types and duplicate ids
func (m *SparkMapper) ToDomain(dtos []SparkDTO) ([]Spark, error) {
	seen := make(map[int]struct{}, len(dtos))
	result := make([]Spark, 0, len(dtos))

	for _, dto := range dtos {
		if _, dup := seen[dto.ID]; dup {
			return nil, fmt.Errorf("duplicate spark id %d", dto.ID)
		}
		seen[dto.ID] = struct{}{}

		category, err := ParseCategory(dto.Type)
		if err != nil {
			return nil, fmt.Errorf("spark %d: %w", dto.ID, err)
		}

		result = append(result, Spark{
			ID:          dto.ID,
			Name:        dto.Name,
			Description: dto.Description,
			Category:    category,
		})
	}

	return result, nil
}

// ToWire converts domain sparks back to the catalog shape
func (m *SparkMapper) ToWire(sparks []Spark) SparkCatalogResponse {
	dtos := make([]SparkDTO, 0, len(sparks))
	for _, s := range sparks {
		dtos = append(dtos, SparkDTO{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Type:        s.Category.String(),
		})
	}
	return SparkCatalogResponse{Sparks: &dtos}
}

// UmamusumeMapper handles conversion between catalog and domain roster records
type UmamusumeMapper struct{}

// NewUmamusumeMapper creates a new umamusume mapper
func NewUmamusumeMapper() *UmamusumeMapper {
	return &UmamusumeMapper{}
}

// ToDomain converts catalog records and enforces the record-level invariants
func (m *UmamusumeMapper) ToDomain(dtos []UmamusumeDTO) ([]Umamusume, error) {
	seen := make(map[int]struct{}, len(dtos))
	result := make([]Umamusume, 0, len(dtos))

	for _, dto := range dtos {
		if _, dup := seen[dto.ID]; dup {
			return nil, fmt.Errorf("duplicate umamusume id %d", dto.ID)
		}
		seen[dto.ID] = struct{}{}

		if dto.InspirationID1 == dto.ID || dto.InspirationID2 == dto.ID {
			return nil, fmt.Errorf("umamusume %d: %w", dto.ID, ErrSelfInspiration)
		}
		if dto.InspirationID1 != 0 && dto.InspirationID1 == dto.InspirationID2 {
			return nil, fmt.Errorf("umamusume %d: inspirations must be distinct", dto.ID)
		}

		refs := make([]SparkReference, 0, len(dto.Sparks))
		refSeen := make(map[int]struct{}, len(dto.Sparks))
		for _, ref := range dto.Sparks {
			if ref.Rarity < MinRarity || ref.Rarity > MaxRarity {
				return nil, fmt.Errorf("umamusume %d spark %d: %w", dto.ID, ref.Spark, ErrInvalidRarity)
			}
			if _, dup := refSeen[ref.Spark]; dup {
				return nil, fmt.Errorf("umamusume %d: duplicate spark %d", dto.ID, ref.Spark)
			}
			refSeen[ref.Spark] = struct{}{}
			refs = append(refs, SparkReference{SparkID: ref.Spark, Rarity: ref.Rarity})
		}

		result = append(result, Umamusume{
			ID:             dto.ID,
			Name:           dto.Name,
			Sparks:         refs,
			InspirationID1: dto.InspirationID1,
			InspirationID2: dto.InspirationID2,
		})
	}

	return result, nil
}

// ToWire converts domain records back to the catalog shape
func (m *UmamusumeMapper) ToWire(records []Umamusume) UmamusumeCatalogResponse {
	dtos := make([]UmamusumeDTO, 0, len(records))
	for _, u := range records {
		refs := make([]SparkRefDTO, 0, len(u.Sparks))
		for _, ref := range u.Sparks {
			refs = append(refs, SparkRefDTO{Spark: ref.SparkID, Rarity: ref.Rarity})
		}
		dtos = append(dtos, UmamusumeDTO{
			ID:             u.ID,
			Name:           u.Name,
			Sparks:         refs,
			InspirationID1: u.InspirationID1,
			InspirationID2: u.InspirationID2,
		})
	}
	return UmamusumeCatalogResponse{Properties: &dtos}
}

// FavouriteMapper handles conversion between database rows and the favourite set
type FavouriteMapper struct{}

// NewFavouriteMapper creates a new favourite mapper
func NewFavouriteMapper() *FavouriteMapper {
	return &FavouriteMapper{}
}

// ToShared converts database rows to a favourite set
func (m *FavouriteMapper) ToShared(rows []models.Favourite) FavouriteSet {
	set := make(FavouriteSet, len(rows))
	for _, row := range rows {
		set.Add(row.UmamusumeID)
	}
	return set
}

// ToDatabase converts a favourite set to database rows in ascending id order
func (m *FavouriteMapper) ToDatabase(set FavouriteSet) []models.Favourite {
	now := time.Now()
	rows := make([]models.Favourite, 0, set.Len())
	for _, id := range set.IDs() {
		rows = append(rows, models.Favourite{
			UmamusumeID: id,
			CreatedAt:   now,
		})
	}
	return rows
}
