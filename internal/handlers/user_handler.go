package handlers

import (
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the payload for a new staff account
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`

	// snake_case aliases sent by older clients
	FirstNameSnake string `json:"first_name"`
	LastNameSnake  string `json:"last_name"`
}

func (r CreateUserRequest) input() services.UserInput {
	in := services.UserInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
	}
	if in.FirstName == "" {
		in.FirstName = r.FirstNameSnake
	}
	if in.LastName == "" {
		in.LastName = r.LastNameSnake
	}
	return in
}

// @Summary List Users
// @Description Get a paginated list of staff accounts
// @Tags Users
// @Produce json
// @Param search query string false "Search by name or email"
// @Param role query string false "Filter by role"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Security CookieAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	users, pagination, err := h.userService.List(c.Request.Context(), services.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"users": responses, "pagination": pagination})
}

// @Summary Create User
// @Description Create an active staff account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User Data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security CookieAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req.input(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user.ToResponse()})
}

// @Summary Deactivate User
// @Description Block a staff account from signing in. Its open sessions fail on the next request.
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /users/{id}/deactivate [put]
func (h *UserHandler) Deactivate(c *gin.Context) {
	user, err := h.userService.Deactivate(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}
