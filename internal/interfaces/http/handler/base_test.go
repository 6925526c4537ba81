package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
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
			name: "from context string",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, gin.H{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "day not open",
			err:        shared.ErrDayNotOpen,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeDayNotOpen,
		},
		{
			name:       "insufficient stock",
			err:        shared.ErrInsufficientStock,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInsufficientStock,
		},
		{
			name:       "sale already voided",
			err:        shared.ErrSaleAlreadyVoided,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeSaleAlreadyVoided,
		},
		{
			name:       "fine grained validation code",
			err:        shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "non domain error becomes internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	d, err = parseDate("2026-01-05T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 14, d.Hour())

	_, err = parseDate("05/01/2026")
	assert.Error(t, err)
}

func TestBindingError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("validator failures carry field details", func(t *testing.T) {
		type payload struct {
			Supplier string  `json:"supplier" binding:"required"`
			Quantity float64 `json:"quantity" binding:"gt=0"`
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":-1}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req payload
		err := c.ShouldBindJSON(&req)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed json falls back to bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req struct {
			Supplier string `json:"supplier" binding:"required"`
		}
		err := c.ShouldBindJSON(&req)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})
}
