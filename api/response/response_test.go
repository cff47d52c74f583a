package response

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-1")
		handler(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleSuccess(t *testing.T) {
	status, body := serve(t, func(c *gin.Context) {
		HandleCreated(c, gin.H{"id": "1001"}, "created")
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, map[string]any{"id": "1001"}, body.Data)
}

func TestHandleAppErrorMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{"validation", shared.NewValidationError("user", "email", "email is invalid"), http.StatusBadRequest, "VALIDATION_ERROR", "email"},
		{"duplicate", shared.NewDuplicateError("user", "username", "username is taken"), http.StatusConflict, "CONFLICT", "username"},
		{"not found", shared.NewNotFoundError("order"), http.StatusNotFound, "NOT_FOUND", ""},
		{"forbidden", shared.NewForbiddenError("order", "not yours"), http.StatusForbidden, "FORBIDDEN", ""},
		{"bad password", shared.NewAuthError("password", "invalid credentials", nil), http.StatusUnauthorized, "AUTH_ERROR", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, func(c *gin.Context) { HandleAppError(c, tt.err) })
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, tt.status, body.Code)
		})
	}
}

func TestHandleAppErrorHidesInternalDetail(t *testing.T) {
	status, body := serve(t, func(c *gin.Context) {
		HandleAppError(c, stdErrors.New("dial tcp 10.0.0.5:3306: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Message)
	assert.Equal(t, "req-1", body.RequestID)
}
