package handlers

import (
	"net/http"

	"github.com/factuurdesk/factuur-api/internal/middleware"
	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TaxHandler serves VAT reporting endpoints
type TaxHandler struct {
	taxSvc *services.TaxService
}

func NewTaxHandler(taxSvc *services.TaxService) *TaxHandler {
	return &TaxHandler{taxSvc: taxSvc}
}

// @Summary Quarterly VAT Report
// @Description Returns the VAT/ICP summary for one calendar quarter
// @Tags Reports
// @Produce json
// @Param year query int true "Year"
// @Param quarter query int true "Quarter (1-4)"
// @Success 200 {object} models.VATReport
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /reports/vat [get]
func (h *TaxHandler) QuarterlyVAT(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	year, quarter, err := services.ParseQuarter(c.Query("year"), c.Query("quarter"))
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.taxSvc.QuarterlyReport(c.Request.Context(), tenantID, year, quarter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
