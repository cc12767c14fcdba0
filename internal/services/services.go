package services

import (
	"context"
	"time"

	"github.com/factuurdesk/factuur-api/internal/config"
	"github.com/factuurdesk/factuur-api/internal/jobs"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"github.com/factuurdesk/factuur-api/pkg/logger"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	Metrics *MetricsService
	Invoice *InvoiceService
	Tax     *TaxService
	Export  *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	metricsSvc := NewMetricsService(repos.Client, repos.TimeEntry, repos.Invoice, repos.MetricsCache, cfg)

	return &Services{
		Auth:    NewAuthService(repos.User, cfg),
		Metrics: metricsSvc,
		Invoice: NewInvoiceService(repos.Invoice, repos.TimeEntry, repos.Client, metricsSvc),
		Tax:     NewTaxService(repos.Invoice, repos.Client),
		Export:  NewExportService(metricsSvc),
	}
}

// StartScheduledJobs registers the recurring background tasks on the worker:
// the hourly overdue status sweep and the cache cleanup.
func (s *Services) StartScheduledJobs(worker *jobs.Worker) {
	worker.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		swept, err := s.Invoice.SweepOverdue(ctx)
		if err != nil {
			return err
		}
		if swept > 0 {
			logger.Info("Overdue sweep marked invoices", "count", swept)
		}
		return nil
	})

	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		return s.Metrics.CleanExpiredCache(ctx)
	})
}
