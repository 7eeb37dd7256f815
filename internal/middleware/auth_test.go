package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rshah/taskflow/backend/internal/auth"
	"github.com/rshah/taskflow/backend/internal/models"
)

// fakeUsers resolves a fixed set of user ids.
type fakeUsers struct {
	known map[int64]bool
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if f.known[id] {
		return &models.User{ID: id, Email: "u@b.com"}, nil
	}
	return nil, nil
}

func newAuthChain(t *testing.T, tokens *auth.TokenManager, users UserResolver) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotZero(t, auth.UserIDFrom(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(tokens, users, true)(next)
}

func get(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, time.Hour)
	users := &fakeUsers{known: map[int64]bool{1: true}}
	h := newAuthChain(t, tokens, users)

	pair, err := tokens.IssuePair(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwdw==", http.StatusUnauthorized},
		{"malformed token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"refresh as access", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(h, tc.header)
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager([]byte("secret"), -time.Second, time.Hour)
	pair, err := expired.IssuePair(1)
	require.NoError(t, err)

	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, time.Hour)
	h := newAuthChain(t, tokens, &fakeUsers{known: map[int64]bool{1: true}})

	rec := get(h, "Bearer "+pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Token expired")
}

func TestRequireAuthDeletedUser(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, time.Hour)
	h := newAuthChain(t, tokens, &fakeUsers{known: map[int64]bool{}})

	pair, err := tokens.IssuePair(99)
	require.NoError(t, err)

	rec := get(h, "Bearer "+pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
