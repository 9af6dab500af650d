package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/interfaces/http/dto"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testRequestID = "req-test"

// newTestEngine simulates an authenticated request for tenantID without a
// real token
func newTestEngine(tenantID uuid.UUID) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, testRequestID)
		if tenantID != uuid.Nil {
			c.Set(middleware.JWTTenantIDKey, tenantID.String())
		}
		c.Next()
	})
	return engine
}

func doRequest(engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		status        int
		code          string
		currentStatus string
	}{
		{"validation", shared.NewValidationError("INVALID_QUANTITY", "quantity must be positive"), http.StatusBadRequest, dto.ErrCodeValidation, ""},
		{"not found", shared.NewNotFoundError("NOT_FOUND", "quote not found"), http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"stale version", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict, ""},
		{"already converted", shared.NewConflictError("ALREADY_CONVERTED", "quote already converted"), http.StatusConflict, dto.ErrCodeAlreadyConverted, ""},
		{"invalid transition", shared.NewInvalidTransitionError("draft", "only sent quotes can be accepted"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "draft"},
		{"storage", shared.NewStorageError("failed to save quote", errors.New("connection refused")), http.StatusServiceUnavailable, dto.ErrCodeStorage, ""},
		{"wrapped", fmt.Errorf("convert: %w", shared.NewInvalidTransitionError("rejected", "cannot convert")), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "rejected"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(uuid.New())
			engine.GET("/err", func(c *gin.Context) {
				(&BaseHandler{}).HandleError(c, tt.err)
			})

			w := doRequest(engine, http.MethodGet, "/err", nil)
			assert.Equal(t, tt.status, w.Code)

			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.currentStatus, resp.Error.CurrentStatus)
			assert.Equal(t, testRequestID, resp.Error.RequestID)
		})
	}
}

func TestTenantRequired(t *testing.T) {
	engine := newTestEngine(uuid.Nil)
	h := NewQuoteHandler(new(MockQuoteService))
	engine.GET("/quotes/:id", h.GetByID)

	w := doRequest(engine, http.MethodGet, "/quotes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueryVersion(t *testing.T) {
	engine := newTestEngine(uuid.New())
	engine.GET("/v", func(c *gin.Context) {
		v, ok := (&BaseHandler{}).queryVersion(c)
		if ok {
			c.JSON(http.StatusOK, gin.H{"version": v})
		}
	})

	assert.Contains(t, doRequest(engine, http.MethodGet, "/v", nil).Body.String(), `"version":0`)
	assert.Contains(t, doRequest(engine, http.MethodGet, "/v?version=4", nil).Body.String(), `"version":4`)
	assert.Equal(t, http.StatusBadRequest, doRequest(engine, http.MethodGet, "/v?version=x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(engine, http.MethodGet, "/v?version=-1", nil).Code)
}
