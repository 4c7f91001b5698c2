package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/middleware"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestCreateUserRequestBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		payload  map[string]interface{}
		wantName string
	}{
		{
			name: "Support firstName (camelCase)",
			payload: map[string]interface{}{
				"email":     "test@lending.ph",
				"password":  "password123",
				"firstName": "Camel",
				"lastName":  "Case",
			},
			wantName: "Camel Case",
		},
		{
			name: "Support first_name (snake_case)",
			payload: map[string]interface{}{
				"email":      "test@lending.ph",
				"password":   "password123",
				"first_name": "Snake",
				"last_name":  "Case",
			},
			wantName: "Snake Case",
		},
		{
			name: "camelCase wins when both are sent",
			payload: map[string]interface{}{
				"firstName":  "Camel",
				"first_name": "Snake",
				"lastName":   "Case",
			},
			wantName: "Camel Case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			jsonBytes, _ := json.Marshal(tt.payload)
			c.Request, _ = http.NewRequest("POST", "/users", bytes.NewBuffer(jsonBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			var req CreateUserRequest
			assert.NoError(t, BindNestedOrFlat(c, "user", &req))
			in := req.input()
			assert.Equal(t, tt.wantName, in.FirstName+" "+in.LastName)
		})
	}
}

type mockUserRepo struct {
	repository.UserRepository
	mockList func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error)
}

func (m *mockUserRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return m.mockList(ctx, query)
}

func TestUserHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := &mockUserRepo{}
	handler := NewUserHandler(services.NewUserService(mockRepo, nil, services.NewAuditService()))

	var capturedRole string
	mockRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
		capturedRole = query.Filters["role"]
		return []models.User{{ID: "u1", Email: "ana@lending.ph", PasswordHash: "secret-hash"}}, 1, nil
	}

	admin := &auth.Identity{UserID: "admin-1", Role: models.RoleAdmin}

	// No role provided -> no filter
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users", nil)
	middleware.SetIdentity(c, admin)
	handler.Index(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", capturedRole)
	assert.Equal(t, "ana@lending.ph", gjson.Get(w.Body.String(), "users.0.email").String())
	assert.False(t, gjson.Get(w.Body.String(), "users.0.passwordHash").Exists())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "pagination.total").Int())

	// Role is upper-cased
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?role=processor", nil)
	middleware.SetIdentity(c, admin)
	handler.Index(c)
	assert.Equal(t, models.RoleProcessor, capturedRole)

	// Processor is refused by the service even without the route guard
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users", nil)
	middleware.SetIdentity(c, &auth.Identity{UserID: "p1", Role: models.RoleProcessor})
	handler.Index(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
