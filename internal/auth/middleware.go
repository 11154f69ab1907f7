package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Context keys for caller data
const (
	ContextKeyCaller   = "auth_caller"
	ContextKeyUsername = "auth_username"
)

// TokenValidator resolves a raw API token to its user. It returns nil, nil
// for unknown tokens.
type TokenValidator interface {
	GetUserByToken(ctx context.Context, token string) (*entities.User, error)
}

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	users   TokenValidator
	limiter *RateLimiter
	logger  logrus.FieldLogger
}

// NewMiddleware creates a new authentication middleware. limiter may be nil.
func NewMiddleware(users TokenValidator, limiter *RateLimiter) *Middleware {
	return &Middleware{
		users:   users,
		limiter: limiter,
		logger:  logrus.StandardLogger(),
	}
}

func (m *Middleware) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		m.logger = logger
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
// Requests without an Authorization header pass through anonymously.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if m.limiter != nil {
			if allowed, retryAfter := m.limiter.Allow(ip); !allowed {
				c.Header("Retry-After", retryAfter.String())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "too many invalid tokens",
					"retry_after": retryAfter.String(),
				})
				return
			}
		}

		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "malformed authorization header",
			})
			return
		}

		user, err := m.users.GetUserByToken(c.Request.Context(), token)
		if err != nil {
			m.logger.WithError(err).Error("token lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "authentication unavailable",
			})
			return
		}
		if user == nil {
			if m.limiter != nil {
				if locked, _ := m.limiter.RecordFailure(ip); locked {
					m.logger.WithField("ip", ip).Warn("client locked out after repeated invalid tokens")
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}

		if m.limiter != nil {
			m.limiter.RecordSuccess(ip)
		}
		SetCaller(c, CallerOf(user), user.Username)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CallerOf maps a stored user onto the identity the catalog acts for.
func CallerOf(user *entities.User) catalog.Caller {
	role := catalog.RoleUser
	if user.Role == entities.UserRoleAdmin {
		role = catalog.RoleAdmin
	}
	return catalog.Caller{UserID: catalog.IDOf(user), Role: role}
}

// RequireCaller returns a middleware that rejects anonymous requests.
func (m *Middleware) RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCaller(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireRole returns a middleware that requires one of roles.
func (m *Middleware) RequireRole(roles ...catalog.Role) gin.HandlerFunc {
	roleSet := make(map[catalog.Role]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !roleSet[caller.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// SetCaller stores the authenticated caller in the Gin context.
func SetCaller(c *gin.Context, caller catalog.Caller, username string) {
	c.Set(ContextKeyCaller, caller)
	c.Set(ContextKeyUsername, username)
}

// GetCaller retrieves the authenticated caller from the context.
func GetCaller(c *gin.Context) (catalog.Caller, bool) {
	if v, exists := c.Get(ContextKeyCaller); exists {
		if caller, ok := v.(catalog.Caller); ok {
			return caller, true
		}
	}
	return catalog.Caller{}, false
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
