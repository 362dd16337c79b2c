package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task represents a single item on a day's list.
type Task struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string   `gorm:"type:varchar(36);index:idx_task_user_date" json:"userId"`
	Title       string   `json:"title"`
	Date        string   `gorm:"type:varchar(10);index:idx_task_user_date" json:"date"`
	Category    Category `gorm:"type:varchar(16);default:general" json:"category"`
	IsCompleted bool     `gorm:"default:false" json:"isCompleted"`
	// Priority 0 is normal; higher values sort first.
	Priority  int       `gorm:"default:0" json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return checkCategory(t.Category)
}

// TimeBlock is a scheduled [StartTime, EndTime) interval on a given day.
type TimeBlock struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index:idx_block_user_date" json:"userId"`
	Date        string    `gorm:"type:varchar(10);index:idx_block_user_date" json:"date"`
	StartTime   string    `gorm:"type:varchar(5)" json:"startTime"`
	EndTime     string    `gorm:"type:varchar(5)" json:"endTime"`
	Label       string    `json:"label"`
	Category    Category  `gorm:"type:varchar(16);default:work" json:"category"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *TimeBlock) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return checkCategory(b.Category)
}

// Color is the display color of the block's category.
func (b TimeBlock) Color() string {
	return b.Category.Info().Color
}
