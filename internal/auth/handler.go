package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/models"
	"github.com/rshah/taskflow/backend/internal/respond"
	"github.com/rshah/taskflow/backend/internal/validate"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users      UserStore
	tokens     *TokenManager
	bcryptCost int
	production bool
}

func NewHandler(users UserStore, tokens *TokenManager, bcryptCost int, production bool) *Handler {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Handler{users: users, tokens: tokens, bcryptCost: bcryptCost, production: production}
}

// tokenResponse builds the {user, token, refreshToken, tokens{...}}
// envelope returned by register, login and refresh. The flat token fields
// duplicate the nested pair for older clients.
func tokenResponse(user *models.User, pair *TokenPair) map[string]any {
	body := map[string]any{
		"success":      true,
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"tokens":       pair,
	}
	if user != nil {
		body["user"] = user
	}
	return body
}

// Register creates a new user and issues a token pair.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, apperr.BadRequest("Invalid request body"), h.production)
		return
	}

	req.Email = validate.NormalizeEmail(req.Email)
	rules := append(validate.EmailRules(req.Email), validate.PasswordRules("password", req.Password)...)
	if err := validate.Run(rules); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		apperr.Write(w, r, apperr.Database("Failed to hash password").WithCause(err), h.production)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, string(hash))
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	pair, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		apperr.Write(w, r, apperr.Database("Failed to issue tokens").WithCause(err), h.production)
		return
	}
	respond.JSON(w, http.StatusCreated, tokenResponse(user, pair))
}

// Login authenticates a user and issues a token pair. Unknown email and
// wrong password produce the same message so accounts can't be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, apperr.BadRequest("Invalid request body"), h.production)
		return
	}

	req.Email = validate.NormalizeEmail(req.Email)

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		apperr.Write(w, r, apperr.Unauthorized("Invalid credentials"), h.production)
		return
	}

	pair, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		apperr.Write(w, r, apperr.Database("Failed to issue tokens").WithCause(err), h.production)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse(user, pair))
}

// Refresh verifies a refresh token and issues a fresh pair. The old
// refresh token is not invalidated; validity is purely time-based.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		// A missing token is just another invalid refresh token.
		apperr.Write(w, r, apperr.Unauthorized("Invalid refresh token"), h.production)
		return
	}

	userID, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		msg := "Invalid refresh token"
		if errors.Is(err, ErrTokenExpired) {
			msg = "Refresh token expired"
		}
		apperr.Write(w, r, apperr.Unauthorized(msg), h.production)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	if user == nil {
		apperr.Write(w, r, apperr.Unauthorized("User no longer exists"), h.production)
		return
	}

	pair, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		apperr.Write(w, r, apperr.Database("Failed to issue tokens").WithCause(err), h.production)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse(nil, pair))
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	if user == nil {
		apperr.Write(w, r, apperr.Unauthorized("User no longer exists"), h.production)
		return
	}
	respond.Data(w, http.StatusOK, map[string]any{"user": user})
}

// Logout is stateless: tokens stay valid until expiry, the client just
// discards them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusOK, "Logged out. Discard your tokens on the client.")
}

// ChangePassword verifies the current password, validates the new one
// against the same strength rules as registration, and persists the new
// hash.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, apperr.BadRequest("Invalid request body"), h.production)
		return
	}

	if err := validate.Run(validate.PasswordRules("newPassword", req.NewPassword)); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	if user == nil {
		apperr.Write(w, r, apperr.Unauthorized("User no longer exists"), h.production)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		apperr.Write(w, r, apperr.Unauthorized("Current password is incorrect"), h.production)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.bcryptCost)
	if err != nil {
		apperr.Write(w, r, apperr.Database("Failed to hash password").WithCause(err), h.production)
		return
	}
	if err := h.users.UpdateUserPassword(r.Context(), user.ID, string(hash)); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	respond.Message(w, http.StatusOK, "Password updated")
}
