package handlers

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    services.ReceiptInput
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "receipt",
			body:     `{"receipt": {"payerName": "Juan", "amount": 1500}}`,
			expected: services.ReceiptInput{PayerName: "Juan", Amount: services.Num(1500)},
		},
		{
			name:     "Flat Structure",
			key:      "receipt",
			body:     `{"payerName": "Maria", "amount": "250.75"}`,
			expected: services.ReceiptInput{PayerName: "Maria", Amount: services.Num(250.75)},
		},
		{
			name:     "Nested Key Missing Falls Back To Flat",
			key:      "receipt",
			body:     `{"other": "value", "payerName": "Pedro", "amount": ""}`,
			expected: services.ReceiptInput{PayerName: "Pedro"},
		},
		{
			name:     "Different Key",
			key:      "application",
			body:     `{"application": {"payerName": "Ana"}}`,
			expected: services.ReceiptInput{PayerName: "Ana"},
		},
		{
			name:        "Malformed Amount",
			key:         "receipt",
			body:        `{"payerName": "Eve", "amount": "twelve"}`,
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "receipt",
			body:        `{"receipt": {"payerName": 42}}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "receipt",
			body:        `{"receipt": "some string"}`,
			expectError: true,
		},
		{
			name:        "Empty Body",
			key:         "receipt",
			body:        ``,
			expectError: true,
		},
		{
			name:        "Whitespace Body",
			key:         "receipt",
			body:        "  \n ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result services.ReceiptInput
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestBindNestedOrFlat_RejectsOversizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"payerName": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))

	var result services.ReceiptInput
	err := BindNestedOrFlat(c, "receipt", &result)
	assert.Error(t, err)
	assert.Empty(t, result.PayerName)
}
