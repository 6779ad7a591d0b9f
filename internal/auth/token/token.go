// Package token issues signed JWT access tokens for staff accounts.
package token

import (
	"time"

	"telecrm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs access tokens carrying the staff ID and role.
type Issuer struct {
	cfg config.AuthServiceConfig
}

func NewIssuer(cfg config.AuthServiceConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

// IssueAccessToken returns a signed access token and its expiry time.
func (i *Issuer) IssueAccessToken(userID uuid.UUID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.cfg.GetAccessTokenTTL())

	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(i.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
