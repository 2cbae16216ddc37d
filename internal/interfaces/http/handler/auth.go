package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/application/identity"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
)

// Where the browser lands after signing in and out
const (
	DashboardHome = "/dashboard"
	LoginPage     = middleware.LoginPath
)

// CallbackField optionally names the page to return to after sign in
const CallbackField = "callbackUrl"

// AuthHandler handles sign in, sign out and the current session
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Login handles POST /login with a form or JSON body. On success the session
// token is stored in an HttpOnly cookie and the browser is redirected to the
// dashboard; JSON clients get the token and user instead.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))

	if wantsJSON(c) {
		h.Success(c, result)
		return
	}
	c.Redirect(http.StatusSeeOther, safeCallback(c.PostForm(CallbackField)))
}

// Logout handles POST /logout. It revokes the session, clears the cookie
// and sends the browser back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.cookie.Name)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)

	if wantsJSON(c) {
		h.Success(c, gin.H{"message": "Signed out."})
		return
	}
	c.Redirect(http.StatusSeeOther, LoginPage)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, session.User)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// safeCallback only follows local paths
func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return DashboardHome
	}
	return raw
}
