package api

import (
	"net/http"
	"time"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	TelegramLinked bool   `json:"telegramLinked"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

func newUserEnvelope(user *model.User) userEnvelope {
	return userEnvelope{User: userResponse{
		ID:             user.ID,
		Email:          user.Email,
		TelegramLinked: user.TelegramID != nil,
	}}
}

type AuthHandler struct {
	auth         *service.AuthService
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: auth.SessionTTL(), cookieSecure: cookieSecure}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, "register", err)
		return
	}
	writeSession(w, token, h.sessionTTL, h.cookieSecure)
	writeJSON(w, http.StatusCreated, newUserEnvelope(user))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, "log in", err)
		return
	}
	writeSession(w, token, h.sessionTTL, h.cookieSecure)
	writeJSON(w, http.StatusOK, newUserEnvelope(user))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := readSession(r); ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			writeServiceError(w, "log out", err)
			return
		}
	}
	clearSession(w, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, newUserEnvelope(user))
}

// TelegramCode handles POST /api/auth/telegram-code
func (h *AuthHandler) TelegramCode(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	code, err := h.auth.CreateLinkCode(r.Context(), user)
	if err != nil {
		writeServiceError(w, "create link code", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}
