// Package api serves the JSON HTTP API used by the web client.
package api

import (
	"net/http"

	"consistency-tracker/internal/service"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth       *service.AuthService
	Tasks      *service.TaskService
	Blocks     *service.TimeBlockService
	Scores     *service.ScoreService
	Dashboard  *service.DashboardService
	Categories *service.CategoryService
}

func NewRouter(svc Services, cookieSecure bool) *http.ServeMux {
	mux := http.NewServeMux()

	authHandler := NewAuthHandler(svc.Auth, cookieSecure)
	taskHandler := NewTaskHandler(svc.Tasks)
	blockHandler := NewTimeBlockHandler(svc.Blocks)
	dashboardHandler := NewDashboardHandler(svc.Scores, svc.Dashboard, svc.Categories)

	requireAuth := RequireAuth(svc.Auth, cookieSecure)
	public := WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc { return WithLogging(requireAuth(h)) }

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/auth/register", public(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", public(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", public(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/me", private(authHandler.Me))
	mux.HandleFunc("POST /api/auth/telegram-code", private(authHandler.TelegramCode))

	mux.HandleFunc("GET /api/categories", public(dashboardHandler.Categories))

	// Tasks
	mux.HandleFunc("GET /api/tasks", private(taskHandler.List))
	mux.HandleFunc("POST /api/tasks", private(taskHandler.Create))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", private(taskHandler.Toggle))
	mux.HandleFunc("PATCH /api/tasks/{id}/priority", private(taskHandler.SetPriority))
	mux.HandleFunc("DELETE /api/tasks/{id}", private(taskHandler.Delete))
	mux.HandleFunc("GET /api/priorities", private(taskHandler.Priorities))

	// Time blocks
	mux.HandleFunc("GET /api/time-blocks", private(blockHandler.List))
	mux.HandleFunc("POST /api/time-blocks", private(blockHandler.Create))
	mux.HandleFunc("PATCH /api/time-blocks/{id}/toggle", private(blockHandler.Toggle))
	mux.HandleFunc("DELETE /api/time-blocks/{id}", private(blockHandler.Delete))

	// Scores
	mux.HandleFunc("GET /api/daily-logs", private(dashboardHandler.DailyLogs))
	mux.HandleFunc("GET /api/dashboard", private(dashboardHandler.Dashboard))

	return mux
}
