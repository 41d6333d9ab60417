package jwtverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
)

type Claims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessClaims struct {
	Username string `json:"usr,omitempty"`
	jwt.RegisteredClaims
}

// Sign produces an HS256 token for claims. ExpiresAt is required.
func Sign(claims Claims, secret []byte) (string, error) {
	c := accessClaims{
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// ParseToken verifies signature and expiry against now. It does not consult any store.
func ParseToken(tokenString string, secret []byte, now time.Time) (Claims, error) {
	var c accessClaims
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&c,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Claims{}, classify(parsed, err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	if c.Subject == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	claims := Claims{UserID: c.Subject, Username: c.Username}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time
	}
	return claims, nil
}

func classify(parsed *jwt.Token, err error) error {
	switch {
	case parsed != nil && parsed.Method != nil && parsed.Method.Alg() != jwt.SigningMethodHS256.Alg():
		return commonerrors.ErrInvalidTokenSigningMethod.WithCause(err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return commonerrors.ErrMissingTokenClaims.WithCause(err)
	default:
		return commonerrors.ErrInvalidToken.WithCause(err)
	}
}

// FailureReason is a low-cardinality label for a ParseToken error.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, commonerrors.ErrInvalidTokenSigningMethod):
		return "signing_method"
	case errors.Is(err, commonerrors.ErrMissingTokenClaims):
		return "missing_claims"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	default:
		return "invalid"
	}
}
