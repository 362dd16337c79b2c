package service

import (
	"context"
	"time"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/scoring"
)

// Dashboard is everything the overview page renders for one day.
type Dashboard struct {
	Date           string          `json:"date"`
	Score          int             `json:"score"`
	Band           string          `json:"band"`
	YesterdayScore *int            `json:"yesterdayScore"`
	Change         *int            `json:"change"`
	Streak         int             `json:"streak"`
	Multiplier     float64         `json:"multiplier"`
	Today          *model.DailyLog `json:"today"`
	Trend          scoring.Trend   `json:"trend"`
	Heatmap        scoring.Heatmap `json:"heatmap"`
	Quote          Quote           `json:"quote"`
}

// DashboardService assembles dashboards from stored daily logs.
type DashboardService struct {
	scores *ScoreService
	clock  Clock
}

func NewDashboardService(scores *ScoreService, clock Clock) *DashboardService {
	return &DashboardService{scores: scores, clock: clock}
}

// Build returns the dashboard for date, or today when date is empty.
func (s *DashboardService) Build(ctx context.Context, user *model.User, date string) (*Dashboard, error) {
	day, err := s.clock.resolveDate(date)
	if err != nil {
		return nil, err
	}
	anchor, err := model.ParseDate(day, s.clock().Location())
	if err != nil {
		return nil, invalid("date %q must be YYYY-MM-DD", date)
	}

	logs, err := s.scores.Logs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return Summarize(logs, anchor), nil
}

// Summarize derives a dashboard from logs as of the day containing anchor.
func Summarize(logs []model.DailyLog, anchor time.Time) *Dashboard {
	date := model.FormatDate(anchor)
	yesterday := model.FormatDate(anchor.AddDate(0, 0, -1))

	d := &Dashboard{
		Date:    date,
		Streak:  scoring.Streak(logs, anchor),
		Trend:   scoring.BuildTrend(logs, anchor),
		Heatmap: scoring.BuildHeatmap(logs, anchor),
		Quote:   QuoteOfTheDay(anchor),
	}
	d.Multiplier = scoring.Multiplier(d.Streak)

	for i := range logs {
		switch logs[i].Date {
		case date:
			d.Today = &logs[i]
			d.Score = logs[i].ConsistencyScore
		case yesterday:
			score := logs[i].ConsistencyScore
			d.YesterdayScore = &score
		}
	}
	if d.YesterdayScore != nil {
		change := d.Score - *d.YesterdayScore
		d.Change = &change
	}
	d.Band = scoring.Band(d.Score)
	return d
}
