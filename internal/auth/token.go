// internal/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type TokenManager struct {
	secret       []byte
	expiryPeriod time.Duration
}

func NewTokenManager(secret string, expiryPeriod time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		expiryPeriod: expiryPeriod,
	}
}

// Claims carries the session identity plus the organization scope, when one
// has been selected. OrganizationID is zero and Role empty on unscoped tokens.
type Claims struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	SessionID      string `json:"sid"`
	OrganizationID int64  `json:"org_id,omitempty"`
	Role           string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Generate issues an unscoped token: the bearer is authenticated but has not
// selected an organization yet.
func (tm *TokenManager) Generate(userID, email, sessionID string) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.expiryPeriod)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// GenerateScoped issues a token bound to one organization and the role the
// bearer holds there. The session identifier is carried over so the session
// keeps the same context store across switches.
func (tm *TokenManager) GenerateScoped(userID, email, sessionID string, organizationID int64, role model.Role) (string, error) {
	claims := Claims{
		UserID:         userID,
		Email:          email,
		SessionID:      sessionID,
		OrganizationID: organizationID,
		Role:           string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.expiryPeriod)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
