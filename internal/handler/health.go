package handler

import "net/http"

// Health answers liveness probes without touching the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Ready round-trips the database so the probe fails when the pool does.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now, err := h.store.Now(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok": false, "error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "now": now})
}
