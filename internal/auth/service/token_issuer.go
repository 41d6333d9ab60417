package service

import (
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

// TokenIssuer signs and verifies stateless access tokens. Any replica holding the
// same secret can verify a token without shared session state.
type TokenIssuer struct {
	jwtSecret      []byte
	accessTokenTTL time.Duration
}

func NewTokenIssuer(jwtSecret string, accessTokenTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		accessTokenTTL: accessTokenTTL,
	}
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.accessTokenTTL
}

func (ti *TokenIssuer) IssueAccessToken(user userdomain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ti.accessTokenTTL)
	token, err := jwtverify.Sign(jwtverify.Claims{
		UserID:    string(user.ID),
		Username:  user.Username,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, ti.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	incrementAccessTokensIssued()
	return token, expiresAt, nil
}

func (ti *TokenIssuer) Validate(token string, now time.Time) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(token, ti.jwtSecret, now)
}
