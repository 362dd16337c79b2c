// Package scoring computes consistency scores, streaks and the derived
// series (trend, heatmap) shown on the dashboard. Everything here is pure.
package scoring

import (
	"math"

	"consistency-tracker/internal/model"
)

const (
	taskWeight  = 0.5
	blockWeight = 0.5

	streakStep = 0.02
	streakCap  = 0.2
)

// Counts is the completion tally of one day.
type Counts struct {
	TasksCompleted  int
	TasksTotal      int
	BlocksCompleted int
	BlocksTotal     int
}

// Result is a computed day: the score and the counts it was derived from.
type Result struct {
	Score int
	Counts
}

// Tally counts total and completed tasks and blocks.
func Tally(tasks []model.Task, blocks []model.TimeBlock) Counts {
	c := Counts{TasksTotal: len(tasks), BlocksTotal: len(blocks)}
	for _, t := range tasks {
		if t.IsCompleted {
			c.TasksCompleted++
		}
	}
	for _, b := range blocks {
		if b.IsCompleted {
			c.BlocksCompleted++
		}
	}
	return c
}

// Multiplier is the streak bonus: +2% per day, capped at +20%.
func Multiplier(streakDays int) float64 {
	if streakDays < 0 {
		streakDays = 0
	}
	return 1 + math.Min(float64(streakDays)*streakStep, streakCap)
}

// BaseScore is the unboosted completion ratio in [0, 100]. A category with no
// entries is left out of the average rather than counted as zero.
func BaseScore(c Counts) float64 {
	taskScore := ratio(c.TasksCompleted, c.TasksTotal)
	blockScore := ratio(c.BlocksCompleted, c.BlocksTotal)

	switch {
	case c.TasksTotal > 0 && c.BlocksTotal > 0:
		return taskScore*taskWeight + blockScore*blockWeight
	case c.TasksTotal > 0:
		return taskScore
	case c.BlocksTotal > 0:
		return blockScore
	default:
		return 0
	}
}

// Score applies the streak multiplier to the base score, clamps to 100 and
// rounds. A day with nothing recorded scores 0 whatever the streak.
func Score(c Counts, streakDays int) int {
	if c.TasksTotal == 0 && c.BlocksTotal == 0 {
		return 0
	}
	boosted := math.Min(BaseScore(c)*Multiplier(streakDays), 100)
	return int(math.Round(boosted))
}

// Calculate scores a day from its tasks and blocks and the user's log history.
// The streak is counted back from today whichever day is being scored, so a
// past day gets the same multiplier as today would.
func Calculate(today string, tasks []model.Task, blocks []model.TimeBlock, history []model.DailyLog) Result {
	counts := Tally(tasks, blocks)
	if counts.TasksTotal == 0 && counts.BlocksTotal == 0 {
		return Result{}
	}
	return Result{
		Score:  Score(counts, StreakFrom(history, today)),
		Counts: counts,
	}
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
