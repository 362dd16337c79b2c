package scoring

import (
	"math"
	"time"

	"consistency-tracker/internal/model"
)

const (
	TrendDays  = 30
	weekLength = 7
)

// TrendPoint is one day of the trend line. Score is nil when nothing was logged.
type TrendPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Score *int   `json:"score"`
}

// Trend is the score series for the last TrendDays days ending at today.
type Trend struct {
	Points  []TrendPoint `json:"points"`
	Average int          `json:"average"`
	// WeekOverWeek compares the last seven scored days with the seven before.
	WeekOverWeek *int `json:"weekOverWeek"`
}

// BuildTrend lays the logs onto the TrendDays days ending at today.
func BuildTrend(logs []model.DailyLog, today time.Time) Trend {
	byDate := indexScores(logs)
	points := make([]TrendPoint, 0, TrendDays)
	scored := make([]int, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		date := model.FormatDate(day)
		p := TrendPoint{Date: date, Label: day.Format("Jan 2")}
		if score, ok := byDate[date]; ok {
			s := score
			p.Score = &s
			scored = append(scored, score)
		}
		points = append(points, p)
	}

	t := Trend{Points: points}
	if len(scored) > 0 {
		t.Average = roundHalfUp(mean(scored))
	}
	if len(scored) >= weekLength {
		recent := scored[len(scored)-weekLength:]
		previous := scored[max(0, len(scored)-2*weekLength) : len(scored)-weekLength]
		if len(previous) > 0 {
			delta := roundHalfUp(mean(recent) - mean(previous))
			t.WeekOverWeek = &delta
		}
	}
	return t
}

// Band names the quality tier of a score.
func Band(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "low"
	}
}

func indexScores(logs []model.DailyLog) map[string]int {
	byDate := make(map[string]int, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l.ConsistencyScore
	}
	return byDate
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
