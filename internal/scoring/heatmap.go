package scoring

import (
	"time"

	"consistency-tracker/internal/model"
)

const heatmapSpanDays = 364

// HeatmapCell is one day of the activity grid.
type HeatmapCell struct {
	Date  string `json:"date"`
	Score *int   `json:"score"`
	Level int    `json:"level"`
}

// MonthLabel marks the week column where a month begins.
type MonthLabel struct {
	Label string `json:"label"`
	Week  int    `json:"week"`
}

// Heatmap is roughly a year of days in Sunday-first week columns.
type Heatmap struct {
	Weeks  [][]HeatmapCell `json:"weeks"`
	Months []MonthLabel    `json:"months"`
}

// BuildHeatmap covers the Sunday on or before today-364 through today.
func BuildHeatmap(logs []model.DailyLog, today time.Time) Heatmap {
	byDate := indexScores(logs)
	end := startOfDay(today)
	start := end.AddDate(0, 0, -heatmapSpanDays)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	var h Heatmap
	var week []HeatmapCell
	lastMonth := time.Month(0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if len(week) == 0 && day.Month() != lastMonth {
			h.Months = append(h.Months, MonthLabel{Label: day.Format("Jan"), Week: len(h.Weeks)})
			lastMonth = day.Month()
		}
		date := model.FormatDate(day)
		cell := HeatmapCell{Date: date}
		if score, ok := byDate[date]; ok {
			s := score
			cell.Score = &s
			cell.Level = Level(score)
		}
		week = append(week, cell)
		if len(week) == weekLength {
			h.Weeks = append(h.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		h.Weeks = append(h.Weeks, week)
	}
	return h
}

// Level buckets a logged score into heatmap intensities 1..5; 0 means no log.
func Level(score int) int {
	switch {
	case score >= 80:
		return 5
	case score >= 60:
		return 4
	case score >= 40:
		return 3
	case score >= 20:
		return 2
	default:
		return 1
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
