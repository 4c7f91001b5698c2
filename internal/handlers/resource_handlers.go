package handlers

import (
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "orcr-api",
		"version": "1.0.0",
	})
}

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Dashboard Stats
// @Description Application counts by status, receipt totals and the most recent records
// @Tags Dashboard
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Security CookieAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// @Summary Get Settings
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /settings [get]
func (h *SettingsHandler) Show(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.Get(c.Request.Context())})
}

// @Summary Update Settings
// @Description Fields left out of the body keep their current value
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body services.Settings true "Settings"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security CookieAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	next := h.settingsService.Get(c.Request.Context())
	if err := BindNestedOrFlat(c, "settings", &next); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	saved, err := h.settingsService.Update(c.Request.Context(), next, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": saved})
}
