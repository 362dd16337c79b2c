package service

import (
	"context"
	"errors"
	"testing"

	"consistency-tracker/internal/model"
)

func TestCreateTask_Validation(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	tests := []struct {
		name  string
		input TaskInput
	}{
		{"empty title", TaskInput{Title: "   "}},
		{"bad date", TaskInput{Title: "x", Date: "tomorrow"}},
		{"unknown category", TaskInput{Title: "x", Category: "chores"}},
		{"negative priority", TaskInput{Title: "x", Priority: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tasks.CreateTask(ctx, user, tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CreateTask() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateTask_DefaultsAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	task, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "  Write report  "})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if task.Title != "Write report" || task.Date != "2026-10-18" || task.Category != model.CategoryGeneral {
		t.Errorf("CreateTask() = %+v, want trimmed title, today, general", task)
	}

	entry := env.logFor(t, user, "2026-10-18")
	if entry.TasksTotal != 1 || entry.TasksCompleted != 0 || entry.ConsistencyScore != 0 {
		t.Errorf("log after create = %+v", entry)
	}
}

func TestToggleTask_RefreshesScore(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"one", "two", "three", "four"} {
		task, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: title, Category: "Work"})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		ids = append(ids, task.ID)
	}

	toggled, err := env.tasks.ToggleTask(ctx, user, ids[0])
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("ToggleTask() did not complete the task")
	}
	if got := env.logFor(t, user, "2026-10-18").ConsistencyScore; got != 25 {
		t.Errorf("score after 1/4 = %d, want 25", got)
	}

	if _, err := env.tasks.ToggleTask(ctx, user, ids[0]); err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if got := env.logFor(t, user, "2026-10-18").ConsistencyScore; got != 0 {
		t.Errorf("score after untoggle = %d, want 0", got)
	}
}

func TestToggleTask_StreakBoost(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	for _, date := range []string{"2026-10-15", "2026-10-16", "2026-10-17"} {
		env.seedLog(t, user, date, 50)
	}
	task, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "run"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "read"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.ToggleTask(ctx, user, task.ID); err != nil {
		t.Fatal(err)
	}

	// Today's own log is stale-zero before this refresh, so the streak is 3.
	if got := env.logFor(t, user, "2026-10-18").ConsistencyScore; got != 53 {
		t.Errorf("score = %d, want 53", got)
	}
}

func TestToggleTask_PastDayUsesTodaysStreak(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	for _, date := range []string{"2026-10-16", "2026-10-17", "2026-10-18"} {
		env.seedLog(t, user, date, 80)
	}
	task, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "file taxes", Date: "2026-10-10"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "call bank", Date: "2026-10-10"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.ToggleTask(ctx, user, task.ID); err != nil {
		t.Fatal(err)
	}

	if got := env.logFor(t, user, "2026-10-10").ConsistencyScore; got != 53 {
		t.Errorf("past-day score = %d, want 53", got)
	}
	if got := env.logFor(t, user, "2026-10-18").ConsistencyScore; got != 80 {
		t.Errorf("today's log changed to %d", got)
	}
}

func TestTaskOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice@example.com")
	bob := env.newUser(t, "bob@example.com")
	ctx := context.Background()

	task, err := env.tasks.CreateTask(ctx, alice, TaskInput{Title: "private"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.tasks.ToggleTask(ctx, bob, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleTask() by other user error = %v, want ErrNotFound", err)
	}
	if _, err := env.tasks.SetPriority(ctx, bob, task.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPriority() by other user error = %v, want ErrNotFound", err)
	}
	if err := env.tasks.DeleteTask(ctx, bob, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask() by other user error = %v, want ErrNotFound", err)
	}
	if _, err := env.tasks.ToggleTask(ctx, alice, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleTask() missing error = %v, want ErrNotFound", err)
	}
}

func TestSetPriorityAndPriorities(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	low, _ := env.tasks.CreateTask(ctx, user, TaskInput{Title: "low"})
	high, _ := env.tasks.CreateTask(ctx, user, TaskInput{Title: "high"})
	if _, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "plain"}); err != nil {
		t.Fatal(err)
	}

	if _, err := env.tasks.SetPriority(ctx, user, low.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.SetPriority(ctx, user, high.ID, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := env.tasks.SetPriority(ctx, user, high.ID, -2); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetPriority(-2) error = %v, want ErrInvalidInput", err)
	}

	got, err := env.tasks.Priorities(ctx, user, "")
	if err != nil {
		t.Fatalf("Priorities() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "high" || got[1].Title != "low" {
		t.Errorf("Priorities() = %+v, want high then low", got)
	}
}

func TestDeleteTask_RefreshesLog(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	done, _ := env.tasks.CreateTask(ctx, user, TaskInput{Title: "done"})
	open, _ := env.tasks.CreateTask(ctx, user, TaskInput{Title: "open"})
	if _, err := env.tasks.ToggleTask(ctx, user, done.ID); err != nil {
		t.Fatal(err)
	}
	if got := env.logFor(t, user, "2026-10-18").ConsistencyScore; got != 50 {
		t.Fatalf("score before delete = %d, want 50", got)
	}

	if err := env.tasks.DeleteTask(ctx, user, open.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	entry := env.logFor(t, user, "2026-10-18")
	if entry.ConsistencyScore != 100 || entry.TasksTotal != 1 {
		t.Errorf("log after delete = %+v, want score 100 with 1 task", entry)
	}
}

func TestTasksOnOtherDateDoNotTouchToday(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@example.com")
	ctx := context.Background()

	if _, err := env.tasks.CreateTask(ctx, user, TaskInput{Title: "later", Date: "2026-10-20"}); err != nil {
		t.Fatal(err)
	}
	today, err := env.tasks.ListTasks(ctx, user, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 0 {
		t.Errorf("ListTasks(today) = %d tasks, want 0", len(today))
	}
	if _, err := env.logs.FindByUserAndDate(ctx, user.ID, "2026-10-18"); err == nil {
		t.Error("a log was written for today")
	}
	env.logFor(t, user, "2026-10-20")
}
