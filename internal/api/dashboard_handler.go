package api

import (
	"net/http"

	"consistency-tracker/internal/service"
)

type DashboardHandler struct {
	scores     *service.ScoreService
	dashboard  *service.DashboardService
	categories *service.CategoryService
}

func NewDashboardHandler(scores *service.ScoreService, dashboard *service.DashboardService, categories *service.CategoryService) *DashboardHandler {
	return &DashboardHandler{scores: scores, dashboard: dashboard, categories: categories}
}

// DailyLogs handles GET /api/daily-logs
func (h *DashboardHandler) DailyLogs(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	logs, err := h.scores.Logs(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list daily logs", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(logs))
}

// Dashboard handles GET /api/dashboard?date=
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	dash, err := h.dashboard.Build(r.Context(), user, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, "build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// Categories handles GET /api/categories
func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.categories.List())
}
