package scoring

import (
	"time"

	"consistency-tracker/internal/model"
)

// MaxStreakScan bounds how many days back a streak is looked for.
const MaxStreakScan = 366

// Streak counts consecutive days ending at anchor that have a log with a
// positive score. The anchor day itself may be empty or zero without breaking
// the run, since it can still be in progress; any earlier empty or zero day
// ends it.
func Streak(logs []model.DailyLog, anchor time.Time) int {
	scores := make(map[string]int, len(logs))
	for _, l := range logs {
		scores[l.Date] = l.ConsistencyScore
	}

	day := startOfDay(anchor)
	streak := 0
	for i := 0; i < MaxStreakScan; i++ {
		score, ok := scores[model.FormatDate(day.AddDate(0, 0, -i))]
		if ok && score > 0 {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}
	return streak
}

// StreakFrom is Streak with a YYYY-MM-DD anchor. An unparsable anchor yields 0.
func StreakFrom(logs []model.DailyLog, anchor string) int {
	day, err := model.ParseDate(anchor, time.UTC)
	if err != nil {
		return 0
	}
	return Streak(logs, day)
}
