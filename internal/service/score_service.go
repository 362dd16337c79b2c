package service

import (
	"context"
	"fmt"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/repository"
	"consistency-tracker/internal/scoring"
)

// ScoreService keeps daily logs in sync with the tasks and blocks they summarize.
type ScoreService struct {
	taskRepo  *repository.TaskRepository
	blockRepo *repository.TimeBlockRepository
	logRepo   *repository.DailyLogRepository
	clock     Clock
}

func NewScoreService(taskRepo *repository.TaskRepository, blockRepo *repository.TimeBlockRepository, logRepo *repository.DailyLogRepository, clock Clock) *ScoreService {
	return &ScoreService{taskRepo: taskRepo, blockRepo: blockRepo, logRepo: logRepo, clock: clock}
}

// Calculate scores userID's day without writing anything. The streak
// multiplier always comes from the run ending today.
func (s *ScoreService) Calculate(ctx context.Context, userID, date string) (scoring.Result, error) {
	tasks, err := s.taskRepo.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("list tasks: %w", err)
	}
	blocks, err := s.blockRepo.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("list time blocks: %w", err)
	}
	history, err := s.logRepo.ListByUser(ctx, userID)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("list daily logs: %w", err)
	}
	return scoring.Calculate(s.clock.Today(), tasks, blocks, history), nil
}

// Refresh recomputes the day and stores it as the (userID, date) log.
func (s *ScoreService) Refresh(ctx context.Context, userID, date string) (*model.DailyLog, error) {
	result, err := s.Calculate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	entry := &model.DailyLog{
		UserID:           userID,
		Date:             date,
		ConsistencyScore: result.Score,
		TasksCompleted:   result.TasksCompleted,
		TasksTotal:       result.TasksTotal,
		BlocksCompleted:  result.BlocksCompleted,
		BlocksTotal:      result.BlocksTotal,
	}
	if err := s.logRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	// On conflict the stored row keeps the id it was created with.
	stored, err := s.logRepo.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("reload daily log: %w", err)
	}
	return stored, nil
}

// Logs returns the user's daily logs, most recent first.
func (s *ScoreService) Logs(ctx context.Context, userID string) ([]model.DailyLog, error) {
	logs, err := s.logRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}
