package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vaughan-dsouza/nerv/internal/auth"
	"github.com/vaughan-dsouza/nerv/internal/models"
	"github.com/vaughan-dsouza/nerv/internal/store"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type AuthHandler struct {
	users     UserStore
	passwords *auth.Passwords
	tokens    *auth.Tokens
	log       *slog.Logger
}

func NewAuthHandler(users UserStore, passwords *auth.Passwords, tokens *auth.Tokens, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, passwords: passwords, tokens: tokens, log: log}
}

// ----------- Request/Response DTOs -------------

type signUpReq struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// bcrypt rejects passwords longer than 72 bytes.
const maxPasswordBytes = 72

type tokenResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := check(req); err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}
	if len(req.Password) > maxPasswordBytes {
		respondError(w, r, h.log, "user", invalid("password must be at most 72 bytes"))
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}

	u, err := h.users.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}
	h.log.Info("user signed up", slog.String("user_id", u.ID))

	h.issue(w, r, http.StatusCreated, u)
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := check(req); err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}

	u, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		h.passwords.VerifyUnknown(req.Password)
		utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}

	if !h.passwords.Verify(req.Password, u.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issue(w, r, http.StatusOK, u)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	token, exp, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		respondError(w, r, h.log, "token", err)
		return
	}
	utils.JSON(w, status, tokenResp{Token: token, ExpiresAt: exp, User: u})
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(w, r)
	if !ok {
		return
	}

	u, err := h.users.GetUserByID(r.Context(), uid)
	if err != nil {
		respondError(w, r, h.log, "user", err)
		return
	}

	utils.JSON(w, http.StatusOK, u)
}
