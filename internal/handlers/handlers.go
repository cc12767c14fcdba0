package handlers

import (
	"errors"
	"net/http"

	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Metrics *MetricsHandler
	Invoice *InvoiceHandler
	Tax     *TaxHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth),
		Metrics: NewMetricsHandler(svcs.Metrics, svcs.Export),
		Invoice: NewInvoiceHandler(svcs.Invoice),
		Tax:     NewTaxHandler(svcs.Tax),
	}
}

// respondError maps the service error taxonomy onto HTTP statuses:
// unauthorized 401, validation 400, not-found 404, invalid-state 422,
// everything else (including data-unavailable) 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
