package uma

import (
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/umaroster/pkg/database/models"
	"github.com/latoulicious/umaroster/pkg/database/repository"
	"github.com/latoulicious/umaroster/pkg/logging"
)

// LogRepositoryAdapter adapts the GORM log repository to logging.LogRepository
type LogRepositoryAdapter struct {
	logRepo *repository.LogRepository
}

// NewLogRepositoryAdapter creates a new LogRepositoryAdapter
func NewLogRepositoryAdapter(logRepo *repository.LogRepository) logging.LogRepository {
	return &LogRepositoryAdapter{
		logRepo: logRepo,
	}
}

// SaveLog implements logging.LogRepository interface
func (l *LogRepositoryAdapter) SaveLog(entry logging.LogEntry) error {
	appLog := &models.AppLog{
		ID:          uuid.New(),
		Component:   entry.Component,
		Level:       entry.Level,
		Message:     entry.Message,
		Error:       entry.Error,
		Fields:      entry.Fields,
		UmamusumeID: entry.UmamusumeID,
		UserID:      entry.UserID,
		ChannelID:   entry.ChannelID,
		Timestamp:   time.Now(),
	}

	return l.logRepo.SaveLog(appLog)
}
