package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthIndex(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

	NewHealthHandler().Index(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "factuur-api", body["service"])
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrInvalidState, http.StatusUnprocessableEntity},
		{services.ErrDataUnavailable, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", services.ErrDataUnavailable), http.StatusInternalServerError},
		{fmt.Errorf("%w: quarter must be 1-4", services.ErrValidation), http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}

func TestMetricsEndpointsRequireTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// No tenant claim in the context: every metrics endpoint fails closed
	// before touching any service.
	h := NewMetricsHandler(nil, nil)
	endpoints := []func(*gin.Context){
		h.DashboardMetrics,
		h.TimeStats,
		h.InvoiceStats,
		h.HealthScore,
		h.Export,
	}

	for _, endpoint := range endpoints {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		endpoint(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestQuarterlyVATValidatesParameters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTaxHandler(nil)

	cases := []string{
		"year=2024&quarter=5",
		"year=2024&quarter=0",
		"year=abc&quarter=1",
		"quarter=1",
		"",
	}
	for _, query := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/reports/vat?"+query, nil)
		c.Set("tenantID", "tenant-1")

		h.QuarterlyVAT(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestQuarterlyVATRequiresTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTaxHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/reports/vat?year=2024&quarter=1", nil)

	h.QuarterlyVAT(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
