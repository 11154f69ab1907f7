package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens struct {
	users map[string]*entities.User
	err   error
}

func (f *fakeTokens) GetUserByToken(_ context.Context, token string) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

var (
	aliceID = uuid.NewString()
	rootID  = uuid.NewString()
)

func setupRouter(t *testing.T, tokens *fakeTokens, limiter *RateLimiter) *gin.Engine {
	t.Helper()

	mw := NewMiddleware(tokens, limiter)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	mw.SetLogger(logger)

	router := gin.New()
	router.Use(mw.Handler())
	router.GET("/open", func(c *gin.Context) {
		caller, ok := GetCaller(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": caller.UserID, "username": GetUsername(c)})
	})
	router.GET("/mine", mw.RequireCaller(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/admin", mw.RequireRole(catalog.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func defaultTokens() *fakeTokens {
	return &fakeTokens{users: map[string]*entities.User{
		"alice-token": {ID: aliceID, Username: "alice", Role: entities.UserRoleUser},
		"root-token":  {ID: rootID, Username: "root", Role: entities.UserRoleAdmin},
	}}
}

func serve(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_Anonymous(t *testing.T) {
	router := setupRouter(t, defaultTokens(), nil)

	rr := serve(router, "/open", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"authenticated": false, "user_id": "", "username": ""}`, rr.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(router, "/mine", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "/admin", "").Code)
}

func TestMiddleware_BearerToken(t *testing.T) {
	router := setupRouter(t, defaultTokens(), nil)

	rr := serve(router, "/open", "Bearer alice-token")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"authenticated": true, "user_id": "`+aliceID+`", "username": "alice"}`, rr.Body.String())

	assert.Equal(t, http.StatusOK, serve(router, "/open", "bearer alice-token").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, "/mine", "Bearer alice-token").Code)
}

func TestMiddleware_Rejects(t *testing.T) {
	router := setupRouter(t, defaultTokens(), nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"basic scheme", "Basic YWxpY2U6cHc=", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"no scheme", "alice-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(router, "/open", tt.header).Code)
		})
	}
}

func TestMiddleware_LookupFailure(t *testing.T) {
	router := setupRouter(t, &fakeTokens{err: errors.New("database is locked")}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, "/open", "Bearer alice-token").Code)
}

func TestRequireRole(t *testing.T) {
	router := setupRouter(t, defaultTokens(), nil)

	assert.Equal(t, http.StatusForbidden, serve(router, "/admin", "Bearer alice-token").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, "/admin", "Bearer root-token").Code)
}

func TestMiddleware_LocksOutRepeatedFailures(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{MaxAttempts: 2, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	router := setupRouter(t, defaultTokens(), limiter)

	assert.Equal(t, http.StatusUnauthorized, serve(router, "/open", "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "/open", "Bearer bad").Code)

	rr := serve(router, "/open", "Bearer alice-token")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	// Anonymous reads are unaffected by the lockout.
	assert.Equal(t, http.StatusOK, serve(router, "/open", "").Code)
}

func TestCallerOf(t *testing.T) {
	upper := "6F9619FF-8B86-D011-B42D-00CF4FC964FF"

	caller := CallerOf(&entities.User{ID: upper, Role: entities.UserRoleAdmin})
	assert.Equal(t, catalog.Caller{UserID: "6f9619ff-8b86-d011-b42d-00cf4fc964ff", Role: catalog.RoleAdmin}, caller)

	caller = CallerOf(&entities.User{ID: aliceID, Role: ""})
	assert.Equal(t, catalog.RoleUser, caller.Role)
}

func TestSecureHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecureHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("behind https proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, hstsValue, rr.Header().Get("Strict-Transport-Security"))
	})
}
