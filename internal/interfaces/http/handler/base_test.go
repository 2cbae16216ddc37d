package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/")
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/")
	_, err := getUserID(c)
	assert.Error(t, err)

	id := uuid.New()
	c.Set(middleware.UserIDKey, id.String())
	got, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestWantsJSON(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/")
	assert.False(t, wantsJSON(c))

	c.Request.Header.Set("Accept", "application/json, text/plain")
	assert.True(t, wantsJSON(c))
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_SuccessPage(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")

	h.SuccessPage(c, []string{"a", "b"}, 8, 2, 6, 2)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, dto.Meta{Total: 8, Page: 2, PageSize: 6, TotalPages: 2}, *resp.Meta)
}

func TestBaseHandler_ErrorHelpers(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name   string
		call   func(*gin.Context)
		status int
		code   string
	}{
		{"bad request", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"not found", func(c *gin.Context) { h.NotFound(c, "gone") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"unauthorized", func(c *gin.Context) { h.Unauthorized(c, "who") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"internal", func(c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			c.Set(middleware.RequestIDKey, "req-1")
			tt.call(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_ValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "/")

	h.ValidationError(c, "Missing Fields. Failed to Create Invoice.", []dto.ValidationDetail{
		{Field: "amount", Message: "Please enter an amount greater than $0."},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeMissingFields, resp.Error.Code)
	assert.Equal(t, "Missing Fields. Failed to Create Invoice.", resp.Error.Message)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "amount", resp.Error.Details[0].Field)
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"invalid id is a missing record", shared.ErrInvalidID, http.StatusNotFound, dto.ErrCodeNotFound, "Identifier is not a valid UUID"},
		{"wrapped domain error", fmt.Errorf("lookup: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"plain error hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}
