package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slotly/internal/middleware"
	"slotly/internal/model"
)

type requestPayload struct {
	Email     string    `json:"email"`
	Time      string    `json:"time"`
	Msg       string    `json:"msg"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Email string `json:"email"`
		Time  string `json:"time"`
		Msg   string `json:"msg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Time == "" || req.Msg == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	br := &model.BookingRequest{
		ID:     uuid.New().String(),
		UserID: userID,
		Email:  req.Email,
		Time:   req.Time,
		Msg:    req.Msg,
	}
	if err := h.store.CreateRequest(r.Context(), br); err != nil {
		h.log.WithError(err).Error("requests: save failed")
		writeError(w, http.StatusInternalServerError, "Failed to create request")
		return
	}

	writeJSON(w, http.StatusCreated, requestPayload{
		Email: br.Email, Time: br.Time, Msg: br.Msg, CreatedAt: br.CreatedAt,
	})
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	reqs, err := h.store.ListRequests(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("requests: load failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}

	out := make([]requestPayload, len(reqs))
	for i, br := range reqs {
		out[i] = requestPayload{Email: br.Email, Time: br.Time, Msg: br.Msg, CreatedAt: br.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}
