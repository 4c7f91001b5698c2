package handlers

import (
	"errors"
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/cvmfinance/orcr-api/pkg/logger"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// bare sentinels get a readable message; wrapped ones carry their own
var publicMessages = map[error]string{
	services.ErrAuthenticationRequired: "Unauthorized",
	services.ErrInvalidCredentials:     "Invalid email or password",
	services.ErrAccountInactive:        "Account is inactive",
	services.ErrForbidden:              "You do not have permission to perform this action",
	services.ErrNotFound:               "Not found",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAuthenticationRequired),
		errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...} for err. Unexpected errors are logged,
// sent to Sentry when configured and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	message := err.Error()
	if msg, ok := publicMessages[err]; ok {
		message = msg
	}
	if status == http.StatusConflict {
		message = "Could not allocate a unique number, please retry"
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
