package service

import (
	"context"
	"fmt"
	"strings"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title    string
	Date     string
	Category string
	Priority int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	scores   *ScoreService
	clock    Clock
}

func NewTaskService(taskRepo *repository.TaskRepository, scores *ScoreService, clock Clock) *TaskService {
	return &TaskService{taskRepo: taskRepo, scores: scores, clock: clock}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if input.Priority < 0 {
		return nil, invalid("priority must not be negative")
	}
	date, err := s.clock.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	category, err := model.ParseCategory(input.Category, model.CategoryGeneral)
	if err != nil {
		return nil, invalid("%v", err)
	}

	task := model.Task{
		UserID:   user.ID,
		Title:    title,
		Date:     date,
		Category: category,
		Priority: input.Priority,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	if _, err := s.scores.Refresh(ctx, user.ID, date); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns the day's tasks, open ones first. An empty date means today.
func (s *TaskService) ListTasks(ctx context.Context, user *model.User, date string) ([]model.Task, error) {
	day, err := s.clock.resolveDate(date)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByUserAndDate(ctx, user.ID, day)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Priorities returns the day's prioritized tasks, highest first.
func (s *TaskService) Priorities(ctx context.Context, user *model.User, date string) ([]model.Task, error) {
	day, err := s.clock.resolveDate(date)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListPrioritized(ctx, user.ID, day)
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound("task", err)
	}
	return task, nil
}

// ToggleTask flips the completion flag and refreshes the task's day.
func (s *TaskService) ToggleTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, err := s.GetTask(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetCompleted(ctx, task, !task.IsCompleted); err != nil {
		return nil, err
	}
	if _, err := s.scores.Refresh(ctx, user.ID, task.Date); err != nil {
		return nil, err
	}
	return task, nil
}

// SetPriority changes the sort priority. Scores do not depend on it.
func (s *TaskService) SetPriority(ctx context.Context, user *model.User, taskID string, priority int) (*model.Task, error) {
	if priority < 0 {
		return nil, invalid("priority must not be negative")
	}
	task, err := s.GetTask(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetPriority(ctx, task, priority); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and refreshes its day.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID string) error {
	task, err := s.GetTask(ctx, user, taskID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, user.ID, taskID); err != nil {
		return notFound("task", err)
	}
	_, err = s.scores.Refresh(ctx, user.ID, task.Date)
	return err
}
