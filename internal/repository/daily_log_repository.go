package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"consistency-tracker/internal/model"
)

// DailyLogRepository stores the per-day score cache.
type DailyLogRepository struct {
	db *gorm.DB
}

func NewDailyLogRepository(db *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// ListByUser returns every log of the user, most recent date first.
func (r *DailyLogRepository) ListByUser(ctx context.Context, userID string) ([]model.DailyLog, error) {
	var logs []model.DailyLog
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("date DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *DailyLogRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.DailyLog, error) {
	var entry model.DailyLog
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts the log or overwrites the counts of the existing (user, date)
// row in a single statement. Notes are left untouched on conflict.
func (r *DailyLogRepository) Upsert(ctx context.Context, entry *model.DailyLog) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"consistency_score",
			"tasks_completed",
			"tasks_total",
			"blocks_completed",
			"blocks_total",
			"updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}
