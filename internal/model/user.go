package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. TelegramID is set once the bot has been linked.
type User struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"`
	Email        string  `gorm:"uniqueIndex"`
	PasswordHash string  `json:"-"`
	TelegramID   *int64  `gorm:"uniqueIndex"`
	LinkCode     *string `gorm:"uniqueIndex" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Tasks      []Task      `gorm:"constraint:OnDelete:CASCADE"`
	TimeBlocks []TimeBlock `gorm:"constraint:OnDelete:CASCADE"`
	DailyLogs  []DailyLog  `gorm:"constraint:OnDelete:CASCADE"`
	Sessions   []Session   `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Session is a server-side login. Only the SHA-256 of the cookie token is stored.
type Session struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	UserID    string `gorm:"type:varchar(36);index"`
	TokenHash string `gorm:"uniqueIndex"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
