package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"consistency-tracker/internal/model"
)

// TimeBlockRepository handles CRUD for scheduled time blocks.
type TimeBlockRepository struct {
	db *gorm.DB
}

func NewTimeBlockRepository(db *gorm.DB) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

func (r *TimeBlockRepository) Create(ctx context.Context, block *model.TimeBlock) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return fmt.Errorf("create time block: %w", err)
	}
	return nil
}

// ListByUserAndDate returns a day's blocks ordered by start time.
func (r *TimeBlockRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]model.TimeBlock, error) {
	var blocks []model.TimeBlock
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).
		Order("start_time ASC, end_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *TimeBlockRepository) FindByID(ctx context.Context, userID, blockID string) (*model.TimeBlock, error) {
	var block model.TimeBlock
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, blockID).First(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *TimeBlockRepository) SetCompleted(ctx context.Context, block *model.TimeBlock, completed bool) error {
	block.IsCompleted = completed
	if err := r.db.WithContext(ctx).Model(block).Update("is_completed", completed).Error; err != nil {
		return fmt.Errorf("update time block completion: %w", err)
	}
	return nil
}

// Delete removes a time block owned by userID.
func (r *TimeBlockRepository) Delete(ctx context.Context, userID, blockID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, blockID).Delete(&model.TimeBlock{})
	if res.Error != nil {
		return fmt.Errorf("delete time block: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
