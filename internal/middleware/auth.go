package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "auth-token"

const identityKey = "identity"

// SetSessionCookie stores token in an HttpOnly cookie that expires with the session
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie on the client
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

// SessionToken reads the token from the session cookie, falling back to a Bearer header
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Auth returns a middleware that reloads the session user on every request.
// A missing user answers 401 and an inactive one 403; both clear the cookie.
func Auth(provider auth.Provider, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := provider.CurrentUser(c.Request.Context(), SessionToken(c))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrAccountInactive):
				ClearSessionCookie(c, secureCookie)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			case errors.Is(err, auth.ErrAuthenticationRequired):
				ClearSessionCookie(c, secureCookie)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			default:
				logger.FromContext(c.Request.Context()).Error("session lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		identity := auth.IdentityFromUser(user)
		SetIdentity(c, identity)
		ctx := logger.IntoContext(c.Request.Context(),
			logger.FromContext(c.Request.Context()).With("user_id", identity.UserID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SetIdentity stores the authenticated identity on the request
func SetIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity returns the authenticated identity, or nil outside Auth
func GetIdentity(c *gin.Context) *auth.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}

// RequireCapability returns a middleware that requires the caller's role to grant capability
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "You do not have permission to perform this action",
			})
			return
		}
		c.Next()
	}
}
