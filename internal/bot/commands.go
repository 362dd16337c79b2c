package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/service"
)

const (
	cbTaskPrefix  = "task:"
	cbBlockPrefix = "block:"
)

const notLinkedText = "🔗 This chat is not linked to an account yet.\n" +
	"Open the web app, request a Telegram code and send it here: <code>/link CODE</code>"

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /today — today's tasks and time blocks, tap to toggle\n" +
	"• /add &lt;title&gt; — quick task for today (start with ! to prioritize)\n" +
	"• /newtask — add a task step by step\n" +
	"• /newblock — schedule a time block\n" +
	"• /done &lt;n&gt; — toggle the n-th task from /today\n" +
	"• /score — today's consistency score and streak\n" +
	"• /report — the daily report right now\n" +
	"• /link &lt;code&gt; — link this chat to your account\n" +
	"• /cancel — cancel the current input"

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		log.Printf("[info] conversation step %d from %d", state.stage, msg.From.ID)
		return b.handleConversation(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /today, /newtask or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "link":
		return b.handleLink(ctx, msg)
	case "today":
		return b.handleToday(ctx, msg.Chat.ID, msg.From.ID)
	case "add":
		return b.handleAdd(ctx, msg)
	case "newtask":
		return b.startTaskConversation(ctx, msg)
	case "newblock":
		return b.startBlockConversation(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "score":
		return b.handleScore(ctx, msg.Chat.ID, msg.From.ID)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	greeting := fmt.Sprintf("👋 Hi, %s!\n<b>I track how consistently you finish what you plan.</b>\n\n", escape(name))

	if _, err := b.svc.Auth.UserByTelegramID(ctx, msg.From.ID); err != nil {
		return b.sendText(msg.Chat.ID, greeting+notLinkedText)
	}
	return b.sendText(msg.Chat.ID, greeting+helpText)
}

func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) error {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		return b.sendText(msg.Chat.ID, "Send the code from the web app: <code>/link CODE</code>")
	}
	user, err := b.svc.Auth.LinkTelegram(ctx, code, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] telegram %d linked to user=%s", msg.From.ID, user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Linked to <b>%s</b>. Try /today.", escape(user.Email)))
}

func (b *Bot) handleToday(ctx context.Context, chatID, telegramID int64) error {
	user, err := b.linkedUser(ctx, chatID, telegramID)
	if user == nil {
		return err
	}
	text, markup, err := b.todayView(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if markup == nil {
		return b.sendText(chatID, text)
	}
	return b.sendWithReplyMarkup(chatID, text, *markup)
}

// todayView renders today's list with one toggle button per task and block.
func (b *Bot) todayView(ctx context.Context, user *model.User) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	tasks, err := b.svc.Tasks.ListTasks(ctx, user, "")
	if err != nil {
		return "", nil, err
	}
	blocks, err := b.svc.Blocks.ListBlocks(ctx, user, "")
	if err != nil {
		return "", nil, err
	}
	dash, err := b.svc.Dashboard.Build(ctx, user, "")
	if err != nil {
		return "", nil, err
	}
	text, markup := renderToday(dash, tasks, blocks)
	return text, markup, nil
}

func renderToday(dash *service.Dashboard, tasks []model.Task, blocks []model.TimeBlock) (string, *tgbotapi.InlineKeyboardMarkup) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s</b> · ⭐ %d · 🔥 %d\n", dash.Date, dash.Score, dash.Streak))

	var rows [][]tgbotapi.InlineKeyboardButton
	builder.WriteString("\n📝 <b>Tasks</b>\n")
	if len(tasks) == 0 {
		builder.WriteString("— none yet, add one with /add\n")
	}
	for i, task := range tasks {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, service.FormatTask(task)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %d · %s", checkIcon(task.IsCompleted), i+1, shortTitle(task.Title, 24)),
				cbTaskPrefix+task.ID,
			),
		))
	}

	builder.WriteString("\n⏱ <b>Time blocks</b>\n")
	if len(blocks) == 0 {
		builder.WriteString("— none yet, add one with /newblock\n")
	}
	for _, block := range blocks {
		builder.WriteString(service.FormatBlock(block) + "\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s %s", checkIcon(block.IsCompleted), block.StartTime, shortTitle(block.Label, 20)),
				cbBlockPrefix+block.ID,
			),
		))
	}

	text := strings.TrimSpace(builder.String())
	if len(rows) == 0 {
		return text, nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return text, &markup
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	title := strings.TrimSpace(msg.CommandArguments())
	if title == "" {
		return b.sendText(msg.Chat.ID, "Usage: <code>/add Buy milk</code> or <code>/add !Finish report</code>")
	}
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}

	input := service.TaskInput{Title: title}
	if strings.HasPrefix(title, "!") {
		input.Title = strings.TrimPrefix(title, "!")
		input.Priority = 1
	}
	task, err := b.svc.Tasks.CreateTask(ctx, user, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] task created id=%s user=%s", task.ID, user.ID)
	return b.sendText(msg.Chat.ID, "➕ Added: "+service.FormatTask(*task))
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || n < 1 {
		return b.sendText(msg.Chat.ID, "Give the task number from /today, e.g. <code>/done 2</code>")
	}
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	tasks, err := b.svc.Tasks.ListTasks(ctx, user, "")
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if n > len(tasks) {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("There are only %d tasks today.", len(tasks)))
	}

	task, err := b.svc.Tasks.ToggleTask(ctx, user, tasks[n-1].ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] task toggled id=%s user=%s done=%t", task.ID, user.ID, task.IsCompleted)
	return b.handleScoreFor(ctx, msg.Chat.ID, user, service.FormatTask(*task))
}

func (b *Bot) handleScore(ctx context.Context, chatID, telegramID int64) error {
	user, err := b.linkedUser(ctx, chatID, telegramID)
	if user == nil {
		return err
	}
	return b.handleScoreFor(ctx, chatID, user, "")
}

func (b *Bot) handleScoreFor(ctx context.Context, chatID int64, user *model.User, prefix string) error {
	dash, err := b.svc.Dashboard.Build(ctx, user, "")
	if err != nil {
		return b.replyError(chatID, err)
	}
	text := formatScore(dash)
	if prefix != "" {
		text = prefix + "\n\n" + text
	}
	return b.sendText(chatID, text)
}

func formatScore(dash *service.Dashboard) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("⭐ Consistency today: <b>%d</b> (%s)\n", dash.Score, dash.Band))
	if dash.Change != nil {
		builder.WriteString(fmt.Sprintf("↕️ %+d vs yesterday\n", *dash.Change))
	}
	builder.WriteString(fmt.Sprintf("🔥 Streak: %d (×%.2f)", dash.Streak, dash.Multiplier))
	if dash.Trend.WeekOverWeek != nil {
		builder.WriteString(fmt.Sprintf("\n📈 Week over week: %+d", *dash.Trend.WeekOverWeek))
	}
	if today := dash.Today; today != nil {
		builder.WriteString(fmt.Sprintf("\n✅ Tasks %d/%d · Blocks %d/%d",
			today.TasksCompleted, today.TasksTotal, today.BlocksCompleted, today.BlocksTotal))
	}
	builder.WriteString(fmt.Sprintf("\n\n<i>“%s” — %s</i>", escape(dash.Quote.Text), escape(dash.Quote.Author)))
	return builder.String()
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	text, err := b.svc.Reports.DailySummary(ctx, user, b.svc.Clock())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	user, err := b.svc.Auth.UserByTelegramID(ctx, cb.From.ID)
	if err != nil {
		b.ackCallback(cb.ID, "Link your account first")
		return nil
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbTaskPrefix):
		log.Printf("[info] callback toggle task user=%s task=%s", user.ID, strings.TrimPrefix(data, cbTaskPrefix))
		_, err = b.svc.Tasks.ToggleTask(ctx, user, strings.TrimPrefix(data, cbTaskPrefix))
	case strings.HasPrefix(data, cbBlockPrefix):
		log.Printf("[info] callback toggle block user=%s block=%s", user.ID, strings.TrimPrefix(data, cbBlockPrefix))
		_, err = b.svc.Blocks.ToggleBlock(ctx, user, strings.TrimPrefix(data, cbBlockPrefix))
	default:
		b.ackCallback(cb.ID, "")
		return nil
	}
	if err != nil {
		b.ackCallback(cb.ID, "Could not update")
		return b.replyError(chatID, err)
	}
	b.ackCallback(cb.ID, "Updated")

	text, markup, err := b.todayView(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}
	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	_, err = b.api.Send(edit)
	return err
}

func checkIcon(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
