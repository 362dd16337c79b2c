package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"consistency-tracker/internal/model"
)

// ReportService builds human-readable summaries for daily notifications.
type ReportService struct {
	tasks  *TaskService
	blocks *TimeBlockService
	scores *ScoreService
}

func NewReportService(tasks *TaskService, blocks *TimeBlockService, scores *ScoreService) *ReportService {
	return &ReportService{tasks: tasks, blocks: blocks, scores: scores}
}

// DailySummary renders the user's day as Telegram HTML.
func (s *ReportService) DailySummary(ctx context.Context, user *model.User, now time.Time) (string, error) {
	date := model.FormatDate(now)
	tasks, err := s.tasks.ListTasks(ctx, user, date)
	if err != nil {
		return "", err
	}
	blocks, err := s.blocks.ListBlocks(ctx, user, date)
	if err != nil {
		return "", err
	}
	logs, err := s.scores.Logs(ctx, user.ID)
	if err != nil {
		return "", err
	}
	dash := Summarize(logs, now)

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, Jan 2 2006")))

	builder.WriteString(fmt.Sprintf("⭐ Score: <b>%d</b> (%s)", dash.Score, dash.Band))
	if dash.Change != nil {
		builder.WriteString(" · " + formatChange(*dash.Change) + " vs yesterday")
	}
	builder.WriteByte('\n')
	builder.WriteString(fmt.Sprintf("🔥 Streak: %s (×%.2f)\n", pluralDays(dash.Streak), dash.Multiplier))

	var openTasks []model.Task
	for _, task := range tasks {
		if !task.IsCompleted {
			openTasks = append(openTasks, task)
		}
	}
	builder.WriteString(fmt.Sprintf("\n📝 <b>Open tasks</b> (%d/%d done)\n", len(tasks)-len(openTasks), len(tasks)))
	if len(openTasks) == 0 {
		builder.WriteString("— nothing left\n")
	}
	for _, task := range openTasks {
		builder.WriteString(FormatTask(task))
		builder.WriteByte('\n')
	}

	var openBlocks []model.TimeBlock
	for _, block := range blocks {
		if !block.IsCompleted {
			openBlocks = append(openBlocks, block)
		}
	}
	builder.WriteString(fmt.Sprintf("\n⏱ <b>Open time blocks</b> (%d/%d done)\n", len(blocks)-len(openBlocks), len(blocks)))
	if len(openBlocks) == 0 {
		builder.WriteString("— nothing left\n")
	}
	for _, block := range openBlocks {
		builder.WriteString(FormatBlock(block))
		builder.WriteByte('\n')
	}

	return strings.TrimSpace(builder.String()), nil
}

// FormatTask renders one task line as Telegram HTML.
func FormatTask(task model.Task) string {
	icon := "⬜"
	if task.IsCompleted {
		icon = "✅"
	}
	var sb strings.Builder
	sb.WriteString(icon + " ")
	if task.Priority > 0 {
		sb.WriteString("❗")
	}
	sb.WriteString(html.EscapeString(strings.TrimSpace(task.Title)))
	sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", task.Category.Info().Label))
	return sb.String()
}

// FormatBlock renders one time block line as Telegram HTML.
func FormatBlock(block model.TimeBlock) string {
	icon := "⬜"
	if block.IsCompleted {
		icon = "✅"
	}
	return fmt.Sprintf("%s %s–%s %s <i>(%s)</i>", icon, block.StartTime, block.EndTime,
		html.EscapeString(strings.TrimSpace(block.Label)), block.Category.Info().Label)
}

func formatChange(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("▲ +%d", change)
	case change < 0:
		return fmt.Sprintf("▼ %d", change)
	default:
		return "= 0"
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
