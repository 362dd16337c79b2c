package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the storage and wire format of a calendar day.
const DateLayout = "2006-01-02"

// DailyLog caches the computed consistency score of one user's day.
// Rows are derived from tasks and time blocks and never edited directly.
type DailyLog struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(36);uniqueIndex:idx_daily_log_user_date" json:"userId"`
	Date             string    `gorm:"type:varchar(10);uniqueIndex:idx_daily_log_user_date" json:"date"`
	ConsistencyScore int       `gorm:"default:0" json:"consistencyScore"`
	Notes            *string   `json:"notes"`
	TasksCompleted   int       `gorm:"default:0" json:"tasksCompleted"`
	TasksTotal       int       `gorm:"default:0" json:"tasksTotal"`
	BlocksCompleted  int       `gorm:"default:0" json:"blocksCompleted"`
	BlocksTotal      int       `gorm:"default:0" json:"blocksTotal"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (l *DailyLog) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// FormatDate renders t as a calendar day in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD day in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, loc)
}
