package handlers

import (
	"net/http"

	"github.com/factuurdesk/factuur-api/internal/middleware"
	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MetricsHandler serves the computed financial metrics
type MetricsHandler struct {
	metricsSvc *services.MetricsService
	exportSvc  *services.ExportService
}

func NewMetricsHandler(metricsSvc *services.MetricsService, exportSvc *services.ExportService) *MetricsHandler {
	return &MetricsHandler{
		metricsSvc: metricsSvc,
		exportSvc:  exportSvc,
	}
}

// @Summary Dashboard Metrics
// @Description Returns the invoice-readiness summary for the current tenant
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.DashboardMetrics
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/dashboard-metrics [get]
func (h *MetricsHandler) DashboardMetrics(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	summary, err := h.metricsSvc.DashboardMetrics(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Time Entry Statistics
// @Description Returns time-tracking statistics for the current tenant
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.TimeStats
// @Security BearerAuth
// @Router /time-entries/stats [get]
func (h *MetricsHandler) TimeStats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	stats, err := h.metricsSvc.TimeStats(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Invoice Statistics
// @Description Returns invoice statistics for the current tenant
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.InvoiceStats
// @Security BearerAuth
// @Router /invoices/stats [get]
func (h *MetricsHandler) InvoiceStats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	stats, err := h.metricsSvc.InvoiceStats(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Business Health Score
// @Description Returns the four-pillar business health score
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.HealthScore
// @Security BearerAuth
// @Router /dashboard/health-score [get]
func (h *MetricsHandler) HealthScore(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	score, err := h.metricsSvc.HealthScore(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// @Summary Export Metrics
// @Description Downloads the current metrics as csv, xlsx or pdf
// @Tags Metrics
// @Produce application/octet-stream
// @Param format query string true "Report format (csv, xlsx, pdf)"
// @Security BearerAuth
// @Router /metrics/export [get]
func (h *MetricsHandler) Export(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	data, filename, contentType, err := h.exportSvc.Export(c.Request.Context(), tenantID, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
