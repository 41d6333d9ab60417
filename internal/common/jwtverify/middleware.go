package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/qa-llm/backend/internal/common/http"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	"github.com/AlibekovAA/qa-llm/backend/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/qa-llm/backend/internal/user/repository"
)

type TokenValidator interface {
	Validate(token string, now time.Time) (Claims, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

type contextKey string

const userKey contextKey = "auth_user"

var errInactiveUser = errors.New("user is inactive")

// Middleware resolves the bearer token to an active user and stores it in the request context.
// Every failure mode answers 401 before next runs.
func Middleware(tokens TokenValidator, users UserFinder, clk clock.Clock, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			metrics.JWTValidationsTotal.Inc()

			reject := func(reason string, err error) {
				metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()
				log.WithFields(ctx, logger.Fields{
					"action": "auth_rejected",
					"reason":    reason,
					"path":      r.URL.Path,
					"client_ip": commonhttp.GetClientIP(r),
				}).Warnf("request authorization failed: %v", err)
				commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized.WithCause(err), log)
			}

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject("missing_header", errors.New("missing or malformed authorization header"))
				return
			}

			claims, err := tokens.Validate(tokenString, clk.Now())
			if err != nil {
				reject(FailureReason(err), err)
				return
			}

			user, err := users.FindByID(ctx, userdomain.ID(claims.UserID))
			if errors.Is(err, userrepo.ErrUserNotFound) {
				reject("unknown_user", err)
				return
			}
			if err != nil {
				commonhttp.HandleError(w, r, commonerrors.ErrDatabaseError.WithCause(err), log)
				return
			}
			if !user.IsActive {
				reject("inactive_user", errInactiveUser)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func WithUser(ctx context.Context, user userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}
