package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"consistency-tracker/internal/auth"
	"consistency-tracker/internal/model"
	"consistency-tracker/internal/repository"
)

// AuthService manages accounts, login sessions and Telegram linking.
type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	sessionTTL  time.Duration
	clock       Clock
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository, sessionTTL time.Duration, clock Clock) *AuthService {
	return &AuthService{userRepo: userRepo, sessionRepo: sessionRepo, sessionTTL: sessionTTL, clock: clock}
}

// SessionTTL is how long a new session stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates an account and logs it in, returning the session token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return nil, "", invalid("%v", err)
	}
	if err != nil {
		return nil, "", err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	user := model.User{Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout drops the session behind token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, auth.HashToken(token))
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessionRepo.FindActive(ctx, auth.HashToken(token), s.clock().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateLinkCode issues a one-time code the user sends to the bot with /link.
func (s *AuthService) CreateLinkCode(ctx context.Context, user *model.User) (string, error) {
	code, err := auth.GenerateLinkCode()
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetLinkCode(ctx, user.ID, code); err != nil {
		return "", err
	}
	return code, nil
}

// LinkTelegram attaches telegramID to the account holding code.
func (s *AuthService) LinkTelegram(ctx context.Context, code string, telegramID int64) (*model.User, error) {
	code = auth.NormalizeLinkCode(code)
	if code == "" {
		return nil, ErrInvalidLinkCode
	}
	user, err := s.userRepo.FindByLinkCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidLinkCode
	}
	if err != nil {
		return nil, fmt.Errorf("find link code: %w", err)
	}
	if err := s.userRepo.LinkTelegram(ctx, user.ID, telegramID); err != nil {
		return nil, err
	}
	user.TelegramID = &telegramID
	user.LinkCode = nil
	return user, nil
}

// UserByTelegramID returns the account linked to a Telegram user.
func (s *AuthService) UserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// LinkedUsers lists accounts that receive bot reports.
func (s *AuthService) LinkedUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListLinked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list linked users: %w", err)
	}
	return users, nil
}

// DeleteExpiredSessions prunes stale sessions.
func (s *AuthService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.clock().UTC())
}

func (s *AuthService) startSession(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}
	session := model.Session{
		UserID:    userID,
		TokenHash: auth.HashToken(token),
		ExpiresAt: s.clock().UTC().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		return "", err
	}
	return token, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email %q is not valid", raw)
	}
	return email, nil
}
