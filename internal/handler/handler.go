package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"slotly/internal/store"
)

type Handler struct {
	store  *store.Store
	secret string
	log    *logrus.Logger
}

func New(st *store.Store, secret string, log *logrus.Logger) *Handler {
	return &Handler{store: st, secret: secret, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
