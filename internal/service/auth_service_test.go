package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.auth.Register(ctx, "  Ann@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "ann@example.com" {
		t.Errorf("Email = %q, want normalized", user.Email)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}

	me, err := env.auth.Authenticate(ctx, token)
	if err != nil || me.ID != user.ID {
		t.Fatalf("Authenticate() = %v, %v", me, err)
	}

	if _, _, err := env.auth.Register(ctx, "ann@example.com", "another1"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register() error = %v, want ErrEmailTaken", err)
	}

	if _, _, err := env.auth.Login(ctx, "ann@example.com", "secret1"); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if _, _, err := env.auth.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.auth.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(unknown email) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		email    string
		password string
	}{
		{"", "secret1"},
		{"not-an-email", "secret1"},
		{"ann@example.com", "short"},
	}
	for _, tt := range tests {
		if _, _, err := env.auth.Register(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%q, %q) error = %v, want ErrInvalidInput", tt.email, tt.password, err)
		}
	}
}

func TestLogoutAndExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, token, err := env.auth.Register(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Authenticate() after logout error = %v, want ErrUnauthenticated", err)
	}

	_, token, err = env.auth.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	env.now = testNow.Add(2 * time.Hour)
	if _, err := env.auth.Authenticate(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Authenticate() after expiry error = %v, want ErrUnauthenticated", err)
	}
	removed, err := env.auth.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("DeleteExpiredSessions() = %d, want 1", removed)
	}

	if _, err := env.auth.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Authenticate(\"\") error = %v, want ErrUnauthenticated", err)
	}
}

func TestTelegramLinking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.auth.Register(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	code, err := env.auth.CreateLinkCode(ctx, user)
	if err != nil {
		t.Fatalf("CreateLinkCode() error = %v", err)
	}

	if _, err := env.auth.LinkTelegram(ctx, "WRONG", 7); !errors.Is(err, ErrInvalidLinkCode) {
		t.Errorf("LinkTelegram(wrong) error = %v, want ErrInvalidLinkCode", err)
	}
	linked, err := env.auth.LinkTelegram(ctx, " "+code+" ", 7)
	if err != nil {
		t.Fatalf("LinkTelegram() error = %v", err)
	}
	if linked.ID != user.ID {
		t.Errorf("linked user = %s, want %s", linked.ID, user.ID)
	}
	if _, err := env.auth.LinkTelegram(ctx, code, 8); !errors.Is(err, ErrInvalidLinkCode) {
		t.Errorf("reused code error = %v, want ErrInvalidLinkCode", err)
	}

	found, err := env.auth.UserByTelegramID(ctx, 7)
	if err != nil || found.ID != user.ID {
		t.Errorf("UserByTelegramID() = %v, %v", found, err)
	}
	if _, err := env.auth.UserByTelegramID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("UserByTelegramID(unknown) error = %v, want ErrNotFound", err)
	}
}
