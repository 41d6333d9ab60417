package jwtverify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/qa-llm/backend/internal/user/repository"
)

type secretValidator struct{}

func (secretValidator) Validate(token string, now time.Time) (Claims, error) {
	return ParseToken(token, testSecret, now)
}

type userFinderFunc func(ctx context.Context, id userdomain.ID) (userdomain.User, error)

func (f userFinderFunc) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return f(ctx, id)
}

func usersWith(users ...userdomain.User) userFinderFunc {
	return func(_ context.Context, id userdomain.ID) (userdomain.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
}

func serve(t *testing.T, finder UserFinder, clk clock.Clock, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "DEBUG")

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(user.Username))
	})

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Middleware(secretValidator{}, finder, clk, log)(next).ServeHTTP(rec, req)
	return rec, reached
}

func TestMiddleware_AcceptsActiveUser(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	alice := userdomain.User{ID: "u1", Username: "alice", IsActive: true}
	token := signed(t, Claims{UserID: "u1", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(time.Hour)})

	rec, reached := serve(t, usersWith(alice), clk, "Bearer "+token)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestMiddleware_Rejections(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	active := userdomain.User{ID: "u1", Username: "alice", IsActive: true}
	inactive := userdomain.User{ID: "u2", Username: "bob", IsActive: false}
	good := signed(t, Claims{UserID: "u1", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(time.Hour)})
	expired := signed(t, Claims{UserID: "u1", IssuedAt: issuedAt.Add(-2 * time.Hour), ExpiresAt: issuedAt.Add(-time.Hour)})
	ghost := signed(t, Claims{UserID: "u9", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(time.Hour)})
	disabled := signed(t, Claims{UserID: "u2", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(time.Hour)})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic " + good},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer abc.def.ghi"},
		{"expired", "Bearer " + expired},
		{"unknown user", "Bearer " + ghost},
		{"inactive user", "Bearer " + disabled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached := serve(t, usersWith(active, inactive), clk, tc.header)
			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "UNAUTHORIZED", body["code"])
		})
	}
}

func TestMiddleware_StoreFailureIsInternal(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	token := signed(t, Claims{UserID: "u1", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(time.Hour)})
	broken := userFinderFunc(func(context.Context, userdomain.ID) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	})

	rec, reached := serve(t, broken, clk, "Bearer "+token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMiddleware_ExpiresWithClock(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	alice := userdomain.User{ID: "u1", Username: "alice", IsActive: true}
	token := signed(t, Claims{UserID: "u1", IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(30 * time.Minute)})

	_, reached := serve(t, usersWith(alice), clk, "Bearer "+token)
	assert.True(t, reached)

	clk.Advance(30 * time.Minute)
	rec, reached := serve(t, usersWith(alice), clk, "Bearer "+token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
