package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Sentinel errors returned by token parsing. The middleware maps these to
// distinct 401 messages so clients can tell an expired token from a
// malformed or tampered one.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

const refreshType = "refresh"

// Claims are the signed token contents. Type is empty for access tokens
// and "refresh" for refresh tokens; the two are never interchangeable.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Type   string `json:"type,omitempty"`
}

// TokenPair is a freshly issued access + refresh token set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

// TokenManager issues and verifies HS256-signed tokens. There is no
// revocation list: validity is purely time- and signature-based, so a
// stolen token stays valid until natural expiry. That statelessness is a
// deliberate trade-off.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL == 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenManager{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a new access + refresh token pair for the user.
func (m *TokenManager) IssuePair(userID int64) (*TokenPair, error) {
	access, err := m.sign(userID, "", m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, refreshType, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL / time.Second),
	}, nil
}

func (m *TokenManager) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   tokenType,
	})
	return token.SignedString(m.secret)
}

// ParseAccess verifies an access token and returns the user id. Refresh
// tokens are rejected here.
func (m *TokenManager) ParseAccess(tokenString string) (int64, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.Type != "" {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// ParseRefresh verifies a refresh token and returns the user id. Access
// tokens presented as refresh tokens are rejected.
func (m *TokenManager) ParseRefresh(tokenString string) (int64, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.Type != refreshType {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
