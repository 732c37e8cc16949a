package models

import (
	"time"

	"github.com/google/uuid"
)

// AppLog represents a persisted log entry
type AppLog struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Component   string                 `gorm:"index;not null;default:'app'" json:"component"` // "store", "gateway", "commands", etc.
	Level       string                 `gorm:"index;not null" json:"level"`                   // INFO, ERROR, WARN, DEBUG
	Message     string                 `gorm:"type:text;not null" json:"message"`
	Error       string                 `gorm:"type:text" json:"error"`
	Fields      map[string]interface{} `gorm:"serializer:json" json:"fields"`
	UmamusumeID int                    `gorm:"index" json:"umamusume_id"` // Optional roster context
	UserID      string                 `gorm:"index" json:"user_id"`      // Optional Discord user context
	ChannelID   string                 `gorm:"index" json:"channel_id"`   // Optional Discord channel context
	Timestamp   time.Time              `gorm:"index;not null" json:"timestamp"`
}

// TableName returns the table name for AppLog
func (AppLog) TableName() string {
	return "app_logs"
}
