package service

import (
	"context"
	"fmt"
	"strings"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/repository"
)

// TimeBlockInput represents data required to schedule a block.
type TimeBlockInput struct {
	Date      string
	StartTime string
	EndTime   string
	Label     string
	Category  string
}

// TimeBlockService wraps time-block business logic.
type TimeBlockService struct {
	blockRepo *repository.TimeBlockRepository
	scores    *ScoreService
	clock     Clock
}

func NewTimeBlockService(blockRepo *repository.TimeBlockRepository, scores *ScoreService, clock Clock) *TimeBlockService {
	return &TimeBlockService{blockRepo: blockRepo, scores: scores, clock: clock}
}

func (s *TimeBlockService) CreateBlock(ctx context.Context, user *model.User, input TimeBlockInput) (*model.TimeBlock, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, invalid("label is required")
	}
	date, err := s.clock.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	start, err := normalizeClock(input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := normalizeClock(input.EndTime)
	if err != nil {
		return nil, err
	}
	// Zero-padded HH:MM compares correctly as a string.
	if end <= start {
		return nil, invalid("end time must be after start time")
	}
	category, err := model.ParseCategory(input.Category, model.CategoryWork)
	if err != nil {
		return nil, invalid("%v", err)
	}

	block := model.TimeBlock{
		UserID:    user.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Label:     label,
		Category:  category,
	}
	if err := s.blockRepo.Create(ctx, &block); err != nil {
		return nil, err
	}
	if _, err := s.scores.Refresh(ctx, user.ID, date); err != nil {
		return nil, err
	}
	return &block, nil
}

// ListBlocks returns the day's blocks by start time. An empty date means today.
func (s *TimeBlockService) ListBlocks(ctx context.Context, user *model.User, date string) ([]model.TimeBlock, error) {
	day, err := s.clock.resolveDate(date)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blockRepo.ListByUserAndDate(ctx, user.ID, day)
	if err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	return blocks, nil
}

func (s *TimeBlockService) ToggleBlock(ctx context.Context, user *model.User, blockID string) (*model.TimeBlock, error) {
	block, err := s.blockRepo.FindByID(ctx, user.ID, blockID)
	if err != nil {
		return nil, notFound("time block", err)
	}
	if err := s.blockRepo.SetCompleted(ctx, block, !block.IsCompleted); err != nil {
		return nil, err
	}
	if _, err := s.scores.Refresh(ctx, user.ID, block.Date); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *TimeBlockService) DeleteBlock(ctx context.Context, user *model.User, blockID string) error {
	block, err := s.blockRepo.FindByID(ctx, user.ID, blockID)
	if err != nil {
		return notFound("time block", err)
	}
	if err := s.blockRepo.Delete(ctx, user.ID, blockID); err != nil {
		return notFound("time block", err)
	}
	_, err = s.scores.Refresh(ctx, user.ID, block.Date)
	return err
}
