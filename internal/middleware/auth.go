package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/auth"
	"github.com/rshah/taskflow/backend/internal/models"
)

// UserResolver checks that the user referenced by a token still exists.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireAuth validates the bearer token and injects the user id into the
// request context. A valid token whose user has since been deleted is
// rejected the same way as a bad token.
func RequireAuth(tokens *auth.TokenManager, users UserResolver, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apperr.Write(w, r, apperr.Unauthorized("Missing authorization token"), production)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apperr.Write(w, r, apperr.Unauthorized("Invalid authorization header format"), production)
				return
			}

			userID, err := tokens.ParseAccess(parts[1])
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Token expired"
				}
				apperr.Write(w, r, apperr.Unauthorized(msg), production)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				apperr.Write(w, r, err, production)
				return
			}
			if user == nil {
				apperr.Write(w, r, apperr.Unauthorized("User no longer exists"), production)
				return
			}

			ctx := auth.WithUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
