package handlers

import (
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	workflowService    *services.WorkflowService
}

func NewApplicationHandler(applicationService *services.ApplicationService, workflowService *services.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, workflowService: workflowService}
}

// StatusRequest drives a workflow transition
type StatusRequest struct {
	Action          string `json:"action"`
	RejectionReason string `json:"rejectionReason"`
}

// @Summary List Applications
// @Description Get a paginated list of loan applications, newest first
// @Tags Applications
// @Produce json
// @Param status query string false "Status filter, ALL for every status"
// @Param search query string false "Search by applicant name or application number"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /applications [get]
func (h *ApplicationHandler) Index(c *gin.Context) {
	apps, pagination, err := h.applicationService.List(c.Request.Context(), services.ApplicationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, apps[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"applications": responses, "pagination": pagination})
}

// @Summary Get Application
// @Description Get an application with its address chain, staff and receipts
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Show(c *gin.Context) {
	app, err := h.applicationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}

// @Summary Create Application
// @Description Create a DRAFT application, or SUBMITTED when status says so. The body may be flat or nested under "application".
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body services.ApplicationInput true "Application Data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security CookieAuth
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var in services.ApplicationInput
	if err := BindNestedOrFlat(c, "application", &in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	app, err := h.applicationService.Create(c.Request.Context(), in, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app.ToResponse()})
}

// @Summary Update Application
// @Description Replace the fields of a DRAFT application. The id comes from the path or the body.
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body services.ApplicationInput true "Application Data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /applications [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var in services.ApplicationInput
	if err := BindNestedOrFlat(c, "application", &in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		in.ID = id
	}
	if in.ID == "" {
		badRequest(c, "Application ID is required")
		return
	}

	app, err := h.applicationService.Update(c.Request.Context(), in.ID, in, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}

// @Summary Delete Application
// @Description Hard-delete a DRAFT application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.applicationService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Change Application Status
// @Description Apply a workflow action: submit, review, approve or reject
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body StatusRequest true "Action"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	app, err := h.workflowService.Transition(c.Request.Context(), c.Param("id"), req.Action, req.RejectionReason, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}
