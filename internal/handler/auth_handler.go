package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"slotly/internal/auth"
	"slotly/internal/model"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	_, err := h.store.UserByEmail(r.Context(), req.Email)
	if err == nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		h.log.WithError(err).Error("signup: lookup failed")
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.WithError(err).Error("signup: hash failed")
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		h.log.WithError(err).Error("signup: insert failed")
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"user":    userResponse{ID: u.ID, Username: u.Username, Email: u.Email},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	u, err := h.store.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		// same answer as a wrong password, don't reveal which
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("login: lookup failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := auth.MakeToken(u.ID, h.secret)
	if err != nil {
		h.log.WithError(err).Error("login: token failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    tok,
		"username": u.Username,
	})
}
