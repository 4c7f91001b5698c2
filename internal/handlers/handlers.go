package handlers

import (
	"strconv"

	"github.com/cvmfinance/orcr-api/internal/config"
	"github.com/cvmfinance/orcr-api/internal/middleware"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Application *ApplicationHandler
	Receipt     *ReceiptHandler
	Dashboard   *DashboardHandler
	Settings    *SettingsHandler
	User        *UserHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Auth:        NewAuthHandler(svcs.Auth, cfg.IsProduction()),
		Application: NewApplicationHandler(svcs.Application, svcs.Workflow),
		Receipt:     NewReceiptHandler(svcs.Receipt, svcs.Export),
		Dashboard:   NewDashboardHandler(svcs.Dashboard),
		Settings:    NewSettingsHandler(svcs.Settings),
		User:        NewUserHandler(svcs.User),
	}
}

// actorFrom builds the acting user for a state-changing call
func actorFrom(c *gin.Context) services.Actor {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return services.Actor{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	}
	return services.NewActor(identity, c.ClientIP(), c.Request.UserAgent())
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
