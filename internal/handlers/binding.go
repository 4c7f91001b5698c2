package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds the JSON payloads accepted by write endpoints.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// BindNestedOrFlat decodes the request body into obj. Clients may wrap the
// payload under key ({"receipt": {...}}) or send it flat ({...}).
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			return json.Unmarshal(inner, obj)
		}
	}
	return json.Unmarshal(body, obj)
}
