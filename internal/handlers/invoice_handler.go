package handlers

import (
	"net/http"
	"strconv"

	"github.com/factuurdesk/factuur-api/internal/middleware"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves invoice lifecycle endpoints
type InvoiceHandler struct {
	invoiceSvc *services.InvoiceService
}

func NewInvoiceHandler(invoiceSvc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceSvc: invoiceSvc}
}

// @Summary List Invoices
// @Description Returns a page of the tenant's invoices
// @Tags Invoices
// @Produce json
// @Param status query string false "Filter by status"
// @Param client_id query string false "Filter by client"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	query := &repository.InvoiceQuery{
		ListQuery: &repository.ListQuery{
			Page:    page,
			PerPage: perPage,
			Search:  c.Query("search"),
		},
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
	}

	invoices, total, err := h.invoiceSvc.List(c.Request.Context(), tenantID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// @Summary Show Invoice
// @Description Returns one invoice with its payments
// @Tags Invoices
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	invoice, err := h.invoiceSvc.GetByID(c.Request.Context(), tenantID, c.Param("invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Create Invoice
// @Description Drafts a new invoice and marks the billed time entries
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body services.CreateInvoiceInput true "Invoice details"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	var input services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceSvc.Create(c.Request.Context(), tenantID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// @Summary Send Invoice
// @Description Transitions a draft invoice to sent
// @Tags Invoices
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Security BearerAuth
// @Router /invoices/{invoice_id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	invoice, err := h.invoiceSvc.Send(c.Request.Context(), tenantID, c.Param("invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Cancel Invoice
// @Description Transitions an invoice to cancelled
// @Tags Invoices
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Security BearerAuth
// @Router /invoices/{invoice_id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	invoice, err := h.invoiceSvc.Cancel(c.Request.Context(), tenantID, c.Param("invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Record Payment
// @Description Registers a payment against an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Param request body services.RecordPaymentInput true "Payment details"
// @Security BearerAuth
// @Router /invoices/{invoice_id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	var input services.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceSvc.RecordPayment(c.Request.Context(), tenantID, c.Param("invoice_id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}
