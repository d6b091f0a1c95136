package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the portal can learn about a bearer token without the
// backend's signing key.
type TokenInfo struct {
	JWT       bool
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (t TokenInfo) Expired(now time.Time) bool {
	return t.JWT && !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

type claims struct {
	UserID  string `json:"id"`
	MongoID string `json:"_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// InspectToken reads JWT claims without verifying the signature. Tokens that
// do not parse as JWTs are reported as opaque and never expire locally.
func InspectToken(token string) TokenInfo {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return TokenInfo{}
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return TokenInfo{}
	}
	info := TokenInfo{JWT: true, Role: c.Role, Subject: c.Subject}
	if info.Subject == "" {
		info.Subject = c.UserID
	}
	if info.Subject == "" {
		info.Subject = c.MongoID
	}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info
}

var ErrInvalidCredentials = errors.New("invalid email or password")
