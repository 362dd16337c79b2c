package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"consistency-tracker/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByLinkCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("link_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetLinkCode(ctx context.Context, userID, code string) error {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("link_code", code).Error; err != nil {
		return fmt.Errorf("set link code: %w", err)
	}
	return nil
}

// LinkTelegram attaches a Telegram account to userID, detaching it from any
// other user first, and consumes the pending link code.
func (r *UserRepository) LinkTelegram(ctx context.Context, userID string, telegramID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("telegram_id = ? AND id <> ?", telegramID, userID).
			Update("telegram_id", nil).Error; err != nil {
			return fmt.Errorf("unlink previous owner: %w", err)
		}
		updates := map[string]interface{}{
			"telegram_id": telegramID,
			"link_code":   nil,
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return fmt.Errorf("link telegram: %w", err)
		}
		return nil
	})
}

// ListLinked returns users that have a Telegram account attached.
func (r *UserRepository) ListLinked(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("telegram_id IS NOT NULL").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user and everything the user owns.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{&model.Session{}, &model.Task{}, &model.TimeBlock{}, &model.DailyLog{}} {
			if err := tx.Where("user_id = ?", userID).Delete(owned).Error; err != nil {
				return fmt.Errorf("delete owned rows: %w", err)
			}
		}
		res := tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
