package models

import "time"

// Favourite marks one roster id as a user favourite
type Favourite struct {
	UmamusumeID int       `gorm:"primaryKey;autoIncrement:false" json:"umamusume_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for Favourite
func (Favourite) TableName() string {
	return "favourites"
}
