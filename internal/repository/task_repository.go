package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"consistency-tracker/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByUserAndDate returns a day's tasks: open first, then by priority.
func (r *TaskRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).
		Order("is_completed ASC, priority DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPrioritized returns a day's tasks with a positive priority, highest first.
func (r *TaskRepository) ListPrioritized(ctx context.Context, userID, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ? AND priority > 0", userID, date).
		Order("priority DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, task *model.Task, completed bool) error {
	task.IsCompleted = completed
	if err := r.db.WithContext(ctx).Model(task).Update("is_completed", completed).Error; err != nil {
		return fmt.Errorf("update task completion: %w", err)
	}
	return nil
}

func (r *TaskRepository) SetPriority(ctx context.Context, task *model.Task, priority int) error {
	task.Priority = priority
	if err := r.db.WithContext(ctx).Model(task).Update("priority", priority).Error; err != nil {
		return fmt.Errorf("update task priority: %w", err)
	}
	return nil
}

// Delete removes a task owned by userID.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
