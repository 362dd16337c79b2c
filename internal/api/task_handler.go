package api

import (
	"net/http"

	"consistency-tracker/internal/service"
)

type createTaskRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
}

type priorityRequest struct {
	Priority *int `json:"priority"`
}

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/tasks?date=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	tasks, err := h.tasks.ListTasks(r.Context(), user, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

// Priorities handles GET /api/priorities?date=
func (h *TaskHandler) Priorities(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	tasks, err := h.tasks.Priorities(r.Context(), user, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, "list priorities", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user, _ := UserFrom(r.Context())
	task, err := h.tasks.CreateTask(r.Context(), user, service.TaskInput{
		Title:    req.Title,
		Date:     req.Date,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		writeServiceError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Toggle handles PATCH /api/tasks/{id}/toggle
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	task, err := h.tasks.ToggleTask(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "toggle task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// SetPriority handles PATCH /api/tasks/{id}/priority
func (h *TaskHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Priority == nil {
		writeError(w, http.StatusBadRequest, "priority is required")
		return
	}
	user, _ := UserFrom(r.Context())
	task, err := h.tasks.SetPriority(r.Context(), user, r.PathValue("id"), *req.Priority)
	if err != nil {
		writeServiceError(w, "set priority", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	if err := h.tasks.DeleteTask(r.Context(), user, r.PathValue("id")); err != nil {
		writeServiceError(w, "delete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

