package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/application/identity"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionKey = "session"
	// UserIDKey is read by the request logger
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// LoginPath is where unauthenticated page requests are sent
const LoginPath = "/login"

// SessionValidator checks a session token
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*identity.SessionInfo, error)
}

// SessionAuthConfig holds configuration for the session middleware
type SessionAuthConfig struct {
	Validator  SessionValidator
	CookieName string
	Logger     *zap.Logger
}

// SessionAuth requires a valid session. The token is read from the session
// cookie first, then from a Bearer Authorization header. Browser page loads
// without a session are redirected to the login page; API calls get a 401.
func SessionAuth(cfg SessionAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := SessionToken(c, cfg.CookieName)
		if token == "" {
			rejectSession(c, "Authentication required")
			return
		}

		session, err := cfg.Validator.ValidateSession(c.Request.Context(), token)
		if err != nil {
			log.Debug("Session rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			rejectSession(c, "Session is invalid or has expired")
			return
		}

		userID := session.User.ID.String()
		c.Set(SessionKey, session)
		c.Set(UserIDKey, userID)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SessionToken extracts the raw session token from the cookie or header
func SessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	header := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	return ""
}

func rejectSession(c *gin.Context, message string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, LoginPath)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message,
		GetRequestID(c),
	))
}

// wantsHTML reports whether the request is a browser page load
func wantsHTML(c *gin.Context) bool {
	return c.Request.Method == http.MethodGet &&
		strings.Contains(c.GetHeader("Accept"), "text/html")
}

// GetSession returns the session stored by SessionAuth
func GetSession(c *gin.Context) *identity.SessionInfo {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*identity.SessionInfo); ok {
			return s
		}
	}
	return nil
}

// GetUserID returns the signed-in user's ID, or ""
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
