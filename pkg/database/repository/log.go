package repository

import (
	"time"

	"github.com/latoulicious/umaroster/pkg/database/models"
	"gorm.io/gorm"
)

// LogRepository handles database operations for AppLog model
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) SaveLog(entry *models.AppLog) error {
	return r.db.Create(entry).Error
}

// GetRecentLogs returns the newest entries for a component, newest first
func (r *LogRepository) GetRecentLogs(component string, limit int) ([]models.AppLog, error) {
	var logs []models.AppLog
	query := r.db.Order("timestamp DESC").Limit(limit)
	if component != "" {
		query = query.Where("component = ?", component)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteLogsBefore prunes entries older than cutoff and returns how many were removed
func (r *LogRepository) DeleteLogsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", cutoff).Delete(&models.AppLog{})
	return result.RowsAffected, result.Error
}
