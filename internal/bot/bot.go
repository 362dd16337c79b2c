package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/service"
)

// sender is the part of the Telegram API the bot talks through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Services bundles what the bot depends on.
type Services struct {
	Auth       *service.AuthService
	Tasks      *service.TaskService
	Blocks     *service.TimeBlockService
	Dashboard  *service.DashboardService
	Reports    *service.ReportService
	Categories *service.CategoryService
	Clock      service.Clock
}

// Bot aggregates Telegram API with services.
type Bot struct {
	client        *tgbotapi.BotAPI
	api           sender
	svc           Services
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, svc Services) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", client.Self.UserName)

	b := newBot(client, svc)
	b.client = client
	return b, nil
}

func newBot(api sender, svc Services) *Bot {
	return &Bot{
		api:           api,
		svc:           svc,
		conversations: make(map[int64]*conversationState),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot has no telegram client")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.client.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.client.StopReceivingUpdates()
	}()

	for update := range updates {
		if err := b.handleUpdate(ctx, update); err != nil {
			log.Printf("handle update %d: %v", update.UpdateID, err)
		}
	}

	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return nil
		}
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

// SendDailyReports sends a summary to every linked user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.svc.Auth.LinkedUsers(ctx)
	if err != nil {
		return err
	}
	now := b.svc.Clock()
	sent := 0
	for i := range users {
		user := &users[i]
		if user.TelegramID == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.svc.Reports.DailySummary(ctx, user, now)
		if err != nil {
			log.Printf("build summary for user %s: %v", user.ID, err)
			continue
		}
		if err := b.sendText(*user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", *user.TelegramID, err)
			continue
		}
		sent++
	}
	log.Printf("[info] daily reports sent=%d linked=%d", sent, len(users))
	return nil
}

// linkedUser resolves the account behind a Telegram user. A nil user with a
// nil error means the chat was told to link first.
func (b *Bot) linkedUser(ctx context.Context, chatID, telegramID int64) (*model.User, error) {
	user, err := b.svc.Auth.UserByTelegramID(ctx, telegramID)
	if errors.Is(err, service.ErrNotFound) {
		return nil, b.sendText(chatID, notLinkedText)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// replyError turns known service failures into a chat reply.
func (b *Bot) replyError(chatID int64, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return b.sendText(chatID, "⚠️ "+escape(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return b.sendText(chatID, "Not found. It may have been deleted.")
	case errors.Is(err, service.ErrInvalidLinkCode):
		return b.sendText(chatID, "That code is not valid. Request a new one in the web app.")
	default:
		if sendErr := b.sendText(chatID, "Something went wrong, please try again."); sendErr != nil {
			log.Printf("send error reply: %v", sendErr)
		}
		return err
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) ackCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func escape(s string) string {
	return html.EscapeString(s)
}
