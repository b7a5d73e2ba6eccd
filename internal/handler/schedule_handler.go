package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slotly/internal/middleware"
	"slotly/internal/model"
)

type eventPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Title     string `json:"title"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.StartTime == "" || req.EndTime == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time")
		return
	}

	ev := &model.ScheduleEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		StartTime: start,
		EndTime:   end,
	}
	if err := h.store.CreateEvent(r.Context(), ev); err != nil {
		h.log.WithError(err).Error("schedule: save failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, eventPayload{
		ID: ev.ID, Title: ev.Title, StartTime: ev.StartTime, EndTime: ev.EndTime,
	})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	events, err := h.store.ListEvents(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("schedule: load failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	out := make([]eventPayload, len(events))
	for i, ev := range events {
		out[i] = eventPayload{ID: ev.ID, Title: ev.Title, StartTime: ev.StartTime, EndTime: ev.EndTime}
	}
	writeJSON(w, http.StatusOK, out)
}
