package scoring

import (
	"math"
	"testing"

	"consistency-tracker/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		streak int
		want   int
	}{
		{"mixed day with streak", Counts{TasksCompleted: 2, TasksTotal: 3, BlocksCompleted: 2, BlocksTotal: 2}, 5, 92},
		{"blocks only", Counts{BlocksCompleted: 1, BlocksTotal: 4}, 0, 25},
		{"nothing recorded", Counts{}, 0, 0},
		{"nothing recorded with long streak", Counts{}, 30, 0},
		{"tasks only", Counts{TasksCompleted: 1, TasksTotal: 2}, 0, 50},
		{"tasks only boosted", Counts{TasksCompleted: 1, TasksTotal: 2}, 3, 53},
		{"clamped to 100", Counts{TasksCompleted: 1, TasksTotal: 1}, 10, 100},
		{"all blocks missed", Counts{BlocksTotal: 3}, 12, 0},
		{"no tasks done but blocks done", Counts{TasksTotal: 2, BlocksCompleted: 2, BlocksTotal: 2}, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.counts, tt.streak)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_SingleCategoryIgnoresTheOther(t *testing.T) {
	// Blocks-only days must not be averaged with an implicit task score of 0.
	for streak := 0; streak <= 12; streak++ {
		for total := 1; total <= 5; total++ {
			for done := 0; done <= total; done++ {
				counts := Counts{BlocksCompleted: done, BlocksTotal: total}
				base := float64(done) / float64(total) * 100
				want := int(math.Round(math.Min(base*Multiplier(streak), 100)))
				if got := Score(counts, streak); got != want {
					t.Errorf("Score(%+v, %d) = %d, want %d", counts, streak, got, want)
				}
			}
		}
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	for streak := 0; streak <= 40; streak += 3 {
		for tt := 0; tt <= 4; tt++ {
			for td := 0; td <= tt; td++ {
				for bt := 0; bt <= 4; bt++ {
					for bd := 0; bd <= bt; bd++ {
						got := Score(Counts{TasksCompleted: td, TasksTotal: tt, BlocksCompleted: bd, BlocksTotal: bt}, streak)
						if got < 0 || got > 100 {
							t.Fatalf("Score() = %d out of range for tasks %d/%d blocks %d/%d streak %d", got, td, tt, bd, bt, streak)
						}
					}
				}
			}
		}
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{-1, 1.0},
		{0, 1.0},
		{1, 1.02},
		{5, 1.10},
		{10, 1.20},
		{11, 1.20},
		{365, 1.20},
	}

	for _, tt := range tests {
		if got := Multiplier(tt.streak); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Multiplier(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}

	prev := Multiplier(0)
	for streak := 1; streak <= 50; streak++ {
		m := Multiplier(streak)
		if m < prev {
			t.Fatalf("Multiplier(%d) = %v decreased from %v", streak, m, prev)
		}
		prev = m
	}
}

func TestBaseScore(t *testing.T) {
	got := BaseScore(Counts{TasksCompleted: 2, TasksTotal: 3, BlocksCompleted: 2, BlocksTotal: 2})
	if math.Abs(got-83.3333) > 0.001 {
		t.Errorf("BaseScore() = %v, want ~83.33", got)
	}
}

func TestTally(t *testing.T) {
	tasks := []model.Task{{IsCompleted: true}, {}, {IsCompleted: true}}
	blocks := []model.TimeBlock{{IsCompleted: true}, {}}

	got := Tally(tasks, blocks)
	want := Counts{TasksCompleted: 2, TasksTotal: 3, BlocksCompleted: 1, BlocksTotal: 2}
	if got != want {
		t.Errorf("Tally() = %+v, want %+v", got, want)
	}
}

func TestCalculate(t *testing.T) {
	history := []model.DailyLog{
		{Date: "2026-10-17", ConsistencyScore: 70},
		{Date: "2026-10-16", ConsistencyScore: 40},
		{Date: "2026-10-14", ConsistencyScore: 90},
	}
	tasks := []model.Task{{IsCompleted: true}, {}}

	got := Calculate("2026-10-18", tasks, nil, history)
	if got.Score != 52 {
		t.Errorf("Calculate().Score = %d, want 52", got.Score)
	}
	if got.TasksTotal != 2 || got.TasksCompleted != 1 {
		t.Errorf("Calculate() counts = %+v, want 1/2 tasks", got.Counts)
	}

	empty := Calculate("2026-10-18", nil, nil, history)
	if empty != (Result{}) {
		t.Errorf("Calculate() on empty day = %+v, want zero result", empty)
	}
}

func TestCalculate_PastDayUsesStreakEndingToday(t *testing.T) {
	history := []model.DailyLog{
		{Date: "2026-10-18", ConsistencyScore: 80},
		{Date: "2026-10-17", ConsistencyScore: 80},
		{Date: "2026-10-16", ConsistencyScore: 80},
		{Date: "2026-10-10", ConsistencyScore: 0},
	}
	tasks := []model.Task{{Date: "2026-10-10", IsCompleted: true}, {Date: "2026-10-10"}}

	// 50 boosted by a three-day streak ending today.
	if got := Calculate("2026-10-18", tasks, nil, history); got.Score != 53 {
		t.Errorf("Calculate().Score = %d, want 53", got.Score)
	}
}
