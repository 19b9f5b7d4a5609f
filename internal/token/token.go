// Package token issues and verifies the bearer credentials used by the API.
// Access and refresh tokens are signed with separate secrets so a leaked
// refresh secret cannot mint access tokens and vice versa.
package token

import (
	"errors"
	"fmt"
	"time"

	"fashion-shop/internal/config"
	"fashion-shop/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager signs and verifies JWT access and refresh tokens.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewManager creates a token manager from JWT configuration.
func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// GenerateAccessToken mints a signed access token for the user.
func (m *Manager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return m.generate(userID, m.accessSecret, m.accessTTL)
}

// GenerateRefreshToken mints a signed refresh token for the user.
func (m *Manager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return m.generate(userID, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) generate(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates an access token and returns the user ID it
// was issued for. Expired and malformed tokens map to distinct domain
// errors so callers can surface distinct messages.
func (m *Manager) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, m.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns the user ID.
func (m *Manager) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, m.refreshSecret)
}

func (m *Manager) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrExpiredToken
		}
		return uuid.Nil, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	return userID, nil
}
