package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("invalid token")

// Manager issues and verifies signed session tokens.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

// NewManager builds a Manager with a lifetime expressed in days, matching the
// cookie expiry configuration.
func NewManager(secret string, expireDays int) *Manager {
	return &Manager{
		secret:   []byte(secret),
		lifetime: time.Duration(expireDays) * 24 * time.Hour,
	}
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issue signs a session token for userID and returns it with its expiry.
func (m *Manager) Issue(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.lifetime)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify returns the user id encoded in tokenStr. It fails if the signature
// does not check out or the token is expired.
func (m *Manager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalid
	}
	if !tkn.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}

// ResetToken is the one-time password-reset pair. Plain goes out in the reset
// email; only Hash and ExpiresAt are persisted.
type ResetToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// NewResetToken generates a random reset token valid for window.
func NewResetToken(window time.Duration) (ResetToken, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return ResetToken{}, err
	}
	plain := hex.EncodeToString(b)
	return ResetToken{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: time.Now().Add(window),
	}, nil
}

// HashResetToken derives the stored form of a reset token. Incoming tokens are
// re-hashed and matched by persisted-value lookup rather than compared in code.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
