package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"consistency-tracker/internal/model"
)

// SessionRepository stores login sessions keyed by token hash.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindActive returns the session for tokenHash if it has not expired at now.
func (r *SessionRepository) FindActive(ctx context.Context, tokenHash string, now time.Time) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).Where("token_hash = ? AND expires_at > ?", tokenHash, now).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes sessions that expired before now and reports how many.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
