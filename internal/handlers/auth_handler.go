package handlers

import (
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/middleware"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Description Authenticates a staff user and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"user": session.User.ToResponse()})
}

// @Summary Logout
// @Description Clears the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Current user
// @Description Returns the signed-in user, reloaded from the store
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		if status := statusFor(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
			middleware.ClearSessionCookie(c, h.secureCookie)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}
