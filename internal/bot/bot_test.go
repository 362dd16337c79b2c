package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/repository"
	"consistency-tracker/internal/service"
)

const telegramID int64 = 4242

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	switch c := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
		return ""
	}
}

type testBot struct {
	bot  *Bot
	api  *fakeSender
	svc  Services
	user *model.User
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	clock := service.Clock(func() time.Time {
		return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	})
	taskRepo := repository.NewTaskRepository(db)
	blockRepo := repository.NewTimeBlockRepository(db)
	scores := service.NewScoreService(taskRepo, blockRepo, repository.NewDailyLogRepository(db), clock)
	tasks := service.NewTaskService(taskRepo, scores, clock)
	blocks := service.NewTimeBlockService(blockRepo, scores, clock)
	svc := Services{
		Auth:       service.NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), time.Hour, clock),
		Tasks:      tasks,
		Blocks:     blocks,
		Dashboard:  service.NewDashboardService(scores, clock),
		Reports:    service.NewReportService(tasks, blocks, scores),
		Categories: service.NewCategoryService(),
		Clock:      clock,
	}

	user, _, err := svc.Auth.Register(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	api := &fakeSender{}
	return &testBot{bot: newBot(api, svc), api: api, svc: svc, user: user}
}

func (tb *testBot) link(t *testing.T) {
	t.Helper()
	code, err := tb.svc.Auth.CreateLinkCode(context.Background(), tb.user)
	if err != nil {
		t.Fatal(err)
	}
	tb.send(t, "/link "+code)
	if !strings.Contains(tb.api.lastText(t), "Linked to") {
		t.Fatalf("link reply = %q", tb.api.lastText(t))
	}
}

// send delivers text from the test user in a private chat.
func (tb *testBot) send(t *testing.T, text string) {
	t.Helper()
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: telegramID, FirstName: "Ann"},
		Chat: &tgbotapi.Chat{ID: telegramID, Type: "private"},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		length := strings.IndexByte(text, ' ')
		if length < 0 {
			length = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	if err := tb.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: msg}); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
}

func TestUnlinkedChatIsAskedToLink(t *testing.T) {
	tb := newTestBot(t)

	for _, cmd := range []string{"/today", "/add Read", "/score", "/newtask"} {
		tb.send(t, cmd)
		if got := tb.api.lastText(t); got != notLinkedText {
			t.Errorf("%s reply = %q, want link prompt", cmd, got)
		}
	}

	tb.send(t, "/link NOPE1234")
	if got := tb.api.lastText(t); !strings.Contains(got, "not valid") {
		t.Errorf("bad code reply = %q", got)
	}
}

func TestGroupChatsAreIgnored(t *testing.T) {
	tb := newTestBot(t)
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: telegramID},
		Chat: &tgbotapi.Chat{ID: -100, Type: "group"},
		Text: "/today",
	}}
	if err := tb.bot.handleUpdate(context.Background(), update); err != nil {
		t.Fatal(err)
	}
	if len(tb.api.sent) != 0 {
		t.Errorf("sent %d messages to a group", len(tb.api.sent))
	}
}

func TestAddTodayAndDone(t *testing.T) {
	tb := newTestBot(t)
	tb.link(t)
	ctx := context.Background()

	tb.send(t, "/add !Ship it")
	if got := tb.api.lastText(t); !strings.Contains(got, "❗Ship it") {
		t.Errorf("add reply = %q", got)
	}
	tb.send(t, "/add Read")

	tb.send(t, "/today")
	last := tb.api.sent[len(tb.api.sent)-1].(tgbotapi.MessageConfig)
	markup, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("today markup = %T, want inline keyboard", last.ReplyMarkup)
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Errorf("today buttons = %d, want 2", len(markup.InlineKeyboard))
	}
	if !strings.Contains(last.Text, "1. ⬜ ❗Ship it") {
		t.Errorf("prioritized task not listed first:\n%s", last.Text)
	}

	tb.send(t, "/done 1")
	if got := tb.api.lastText(t); !strings.Contains(got, "Consistency today: <b>50</b>") {
		t.Errorf("done reply = %q", got)
	}

	tb.send(t, "/done 9")
	if got := tb.api.lastText(t); !strings.Contains(got, "only 2 tasks") {
		t.Errorf("out of range reply = %q", got)
	}

	entry, err := tb.svc.Dashboard.Build(ctx, tb.user, "")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Score != 50 {
		t.Errorf("stored score = %d, want 50", entry.Score)
	}
}

func TestNewBlockConversation(t *testing.T) {
	tb := newTestBot(t)
	tb.link(t)

	tb.send(t, "/newblock")
	tb.send(t, "Gym")
	tb.send(t, "later")
	if got := tb.api.lastText(t); !strings.Contains(got, "HH:MM-HH:MM") {
		t.Errorf("bad range reply = %q", got)
	}
	tb.send(t, "18:00 – 19:30")
	tb.send(t, "Health")
	if got := tb.api.lastText(t); !strings.Contains(got, "18:00–19:30 Gym <i>(Health)</i>") {
		t.Errorf("block reply = %q", got)
	}
	if tb.bot.getConversation(telegramID) != nil {
		t.Error("conversation not cleared")
	}

	blocks, err := tb.svc.Blocks.ListBlocks(context.Background(), tb.user, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].Category != model.CategoryHealth {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestNewTaskConversationCancel(t *testing.T) {
	tb := newTestBot(t)
	tb.link(t)

	tb.send(t, "/newtask")
	tb.send(t, "Write")
	tb.send(t, btnCancelDialog)
	if tb.bot.getConversation(telegramID) != nil {
		t.Error("conversation not cleared by cancel")
	}

	tb.send(t, "/newtask")
	tb.send(t, "Write")
	tb.send(t, btnSkip)
	tasks, err := tb.svc.Tasks.ListTasks(context.Background(), tb.user, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Category != model.CategoryGeneral {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestCallbackTogglesAndEdits(t *testing.T) {
	tb := newTestBot(t)
	tb.link(t)
	ctx := context.Background()

	task, err := tb.svc.Tasks.CreateTask(ctx, tb.user, service.TaskInput{Title: "Stretch"})
	if err != nil {
		t.Fatal(err)
	}

	cb := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: telegramID},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: telegramID, Type: "private"}},
		Data:    cbTaskPrefix + task.ID,
	}
	if err := tb.bot.handleUpdate(ctx, tgbotapi.Update{CallbackQuery: cb}); err != nil {
		t.Fatalf("callback: %v", err)
	}

	if len(tb.api.requests) != 1 {
		t.Errorf("callback acks = %d, want 1", len(tb.api.requests))
	}
	edit, ok := tb.api.sent[len(tb.api.sent)-1].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("last sent = %T, want edit", tb.api.sent[len(tb.api.sent)-1])
	}
	if edit.MessageID != 7 || !strings.Contains(edit.Text, "✅ Stretch") {
		t.Errorf("edit = %d %q", edit.MessageID, edit.Text)
	}

	got, err := tb.svc.Tasks.GetTask(ctx, tb.user, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsCompleted {
		t.Error("callback did not toggle the task")
	}
}

func TestSendDailyReports(t *testing.T) {
	tb := newTestBot(t)
	tb.link(t)
	before := len(tb.api.sent)

	if err := tb.bot.SendDailyReports(context.Background()); err != nil {
		t.Fatalf("SendDailyReports() error = %v", err)
	}
	if len(tb.api.sent) != before+1 {
		t.Fatalf("reports sent = %d, want 1", len(tb.api.sent)-before)
	}
	msg := tb.api.sent[len(tb.api.sent)-1].(tgbotapi.MessageConfig)
	if msg.ChatID != telegramID || !strings.Contains(msg.Text, "Daily report") {
		t.Errorf("report = %d %q", msg.ChatID, msg.Text)
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end string
		ok         bool
	}{
		{"09:00-10:30", "09:00", "10:30", true},
		{"9:00 – 10:30", "9:00", "10:30", true},
		{"09:00 10:30", "09:00", "10:30", true},
		{"09:00", "", "", false},
		{"nine-ten", "", "", false},
	}
	for _, tt := range tests {
		start, end, ok := parseTimeRange(tt.in)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("parseTimeRange(%q) = %q, %q, %v", tt.in, start, end, ok)
		}
	}
}
