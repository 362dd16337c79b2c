package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTaskTitle
	stageTaskCategory
	stageBlockLabel
	stageBlockTime
	stageBlockCategory
)

type conversationState struct {
	stage conversationStage
	task  service.TaskInput
	block service.TimeBlockInput
}

func (b *Bot) startTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	log.Printf("[info] start new task conversation user=%s", user.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTaskTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task for today.\n<b>Step 1:</b> what is it?", cancelKeyboard())
}

func (b *Bot) startBlockConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	log.Printf("[info] start new block conversation user=%s", user.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageBlockLabel})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New time block for today.\n<b>Step 1:</b> what will you do?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTaskTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title cannot be empty.", cancelKeyboard())
		}
		state.task.Title = text
		state.stage = stageTaskCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 2:</b> pick a category (or skip for General).", categoryKeyboard())
	case stageTaskCategory:
		if !isSkipInput(text) {
			category, err := b.svc.Categories.Parse(text, model.CategoryGeneral)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the buttons.", categoryKeyboard())
			}
			state.task.Category = string(category)
		}
		b.clearConversation(msg.From.ID)
		return b.finishTask(ctx, msg, state.task)
	case stageBlockLabel:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The label cannot be empty.", cancelKeyboard())
		}
		state.block.Label = text
		state.stage = stageBlockTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ <b>Step 2:</b> when? Send a range like <code>09:00-10:30</code>.", cancelKeyboard())
	case stageBlockTime:
		start, end, ok := parseTimeRange(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Use the <code>HH:MM-HH:MM</code> format, e.g. <code>14:00-15:30</code>.", cancelKeyboard())
		}
		state.block.StartTime = start
		state.block.EndTime = end
		state.stage = stageBlockCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 3:</b> pick a category (or skip for Work).", categoryKeyboard())
	case stageBlockCategory:
		if !isSkipInput(text) {
			category, err := b.svc.Categories.Parse(text, model.CategoryWork)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the buttons.", categoryKeyboard())
			}
			state.block.Category = string(category)
		}
		b.clearConversation(msg.From.ID)
		return b.finishBlock(ctx, msg, state.block)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Start again with /newtask or /newblock.")
	}
}

func (b *Bot) finishTask(ctx context.Context, msg *tgbotapi.Message, input service.TaskInput) error {
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	task, err := b.svc.Tasks.CreateTask(ctx, user, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] task created id=%s user=%s", task.ID, user.ID)
	return b.sendText(msg.Chat.ID, "✅ <b>Task saved</b>\n"+service.FormatTask(*task))
}

func (b *Bot) finishBlock(ctx context.Context, msg *tgbotapi.Message, input service.TimeBlockInput) error {
	user, err := b.linkedUser(ctx, msg.Chat.ID, msg.From.ID)
	if user == nil {
		return err
	}
	block, err := b.svc.Blocks.CreateBlock(ctx, user, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] time block created id=%s user=%s", block.ID, user.ID)
	return b.sendText(msg.Chat.ID, "✅ <b>Time block saved</b>\n"+service.FormatBlock(*block))
}

// parseTimeRange splits "09:00-10:30" (dash, en dash or space) into its ends.
// Clock validation is left to the time-block service.
func parseTimeRange(text string) (string, string, bool) {
	normalized := strings.NewReplacer("–", "-", "—", "-", " ", "-").Replace(strings.TrimSpace(text))
	var parts []string
	for _, part := range strings.Split(normalized, "-") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) != 2 || !strings.Contains(parts[0], ":") || !strings.Contains(parts[1], ":") {
		return "", "", false
	}
	return parts[0], parts[1], true
}
