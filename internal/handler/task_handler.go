package handler

import (
	"encoding/json"
	"net/http"

	"slotly/internal/middleware"
	"slotly/internal/model"
)

type taskPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	DueDate string `json:"dueDate,omitempty"`
	MovedAt string `json:"movedAt,omitempty"`
}

// SaveChecklist is the replace-all sync primitive: the client always sends
// its complete desired list and every stored row is rewritten. Row ids are
// not stable across calls.
func (h *Handler) SaveChecklist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Tasks []taskPayload `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tasks == nil {
		writeError(w, http.StatusBadRequest, "Tasks must be an array")
		return
	}

	tasks := make([]model.Task, len(req.Tasks))
	for i, t := range req.Tasks {
		tasks[i] = model.Task{
			Title:   t.Title,
			Status:  t.Status,
			DueDate: t.DueDate,
			MovedAt: t.MovedAt,
		}
	}

	if err := h.store.ReplaceTasks(r.Context(), userID, tasks); err != nil {
		h.log.WithError(err).Error("checklist: save failed")
		writeError(w, http.StatusInternalServerError, "Failed to save checklist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Checklist saved"})
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	tasks, err := h.store.ListTasks(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("checklist: load failed")
		writeError(w, http.StatusInternalServerError, "Failed to load checklist")
		return
	}

	out := make([]taskPayload, len(tasks))
	for i, t := range tasks {
		out[i] = taskPayload{
			ID:      t.ID,
			Title:   t.Title,
			Status:  t.Status,
			DueDate: t.DueDate,
			MovedAt: t.MovedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type statPayload struct {
	Date      string `json:"date"`
	Done      int    `json:"done"`
	Skipped   int    `json:"skipped"`
	Postponed int    `json:"postponed"`
}

// TaskStats reports per-day status counts. The wire name for the
// move-to-tomorrow count is exactly "postponed".
func (h *Handler) TaskStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	stats, err := h.store.TaskStats(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("checklist: stats failed")
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	out := make([]statPayload, len(stats))
	for i, s := range stats {
		out[i] = statPayload{Date: s.Date, Done: s.Done, Skipped: s.Skipped, Postponed: s.Postponed}
	}
	writeJSON(w, http.StatusOK, out)
}
