package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/factuurdesk/factuur-api/internal/config"
	"github.com/factuurdesk/factuur-api/internal/metrics"
	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"github.com/factuurdesk/factuur-api/pkg/logger"
)

// Cache keys for the per-tenant metrics cache
const (
	cacheKeyDashboard   = "dashboard_metrics"
	cacheKeyHealthScore = "health_score"
)

// MetricsService runs the classify/aggregate/score pipeline over a tenant's
// records. All date arithmetic flows from a single injected clock so the
// pipeline itself stays deterministic.
type MetricsService struct {
	clientRepo    repository.ClientRepository
	timeEntryRepo repository.TimeEntryRepository
	invoiceRepo   repository.InvoiceRepository
	cacheRepo     repository.MetricsCacheRepository
	scorer        *metrics.Scorer
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewMetricsService creates a new metrics service
func NewMetricsService(
	clientRepo repository.ClientRepository,
	timeEntryRepo repository.TimeEntryRepository,
	invoiceRepo repository.InvoiceRepository,
	cacheRepo repository.MetricsCacheRepository,
	cfg *config.Config,
) *MetricsService {
	return &MetricsService{
		clientRepo:    clientRepo,
		timeEntryRepo: timeEntryRepo,
		invoiceRepo:   invoiceRepo,
		cacheRepo:     cacheRepo,
		scorer:        metrics.NewScorer(),
		cacheTTL:      time.Duration(cfg.MetricsCacheTTL) * time.Minute,
		now:           time.Now,
	}
}

// WithClock overrides the reference clock, used by tests and backfills.
func (s *MetricsService) WithClock(now func() time.Time) *MetricsService {
	s.now = now
	return s
}

// tenantSnapshot is one consistent in-memory read of everything the engine
// needs. If any read fails the whole snapshot fails; there is no partial mode.
type tenantSnapshot struct {
	clients  map[string]models.Client
	unbilled []models.TimeEntry
	invoices []models.Invoice
	periods  metrics.PeriodBoundaries
}

func (s *MetricsService) loadSnapshot(ctx context.Context, tenantID string) (*tenantSnapshot, error) {
	clients, err := s.clientRepo.MapByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading clients: %v", ErrDataUnavailable, err)
	}
	unbilled, err := s.timeEntryRepo.FindUnbilled(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading time entries: %v", ErrDataUnavailable, err)
	}
	invoices, err := s.invoiceRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading invoices: %v", ErrDataUnavailable, err)
	}
	return &tenantSnapshot{
		clients:  clients,
		unbilled: unbilled,
		invoices: invoices,
		periods:  metrics.NewPeriodBoundaries(s.now()),
	}, nil
}

// DashboardMetrics returns the invoice-readiness summary for the tenant,
// served from cache when a fresh entry exists.
func (s *MetricsService) DashboardMetrics(ctx context.Context, tenantID string) (*models.DashboardMetrics, error) {
	if cached, err := s.cacheRepo.Get(ctx, tenantID, cacheKeyDashboard); err == nil && cached != nil {
		var summary models.DashboardMetrics
		if err := json.Unmarshal(cached.Data, &summary); err == nil {
			return &summary, nil
		}
	}

	snap, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	classified := metrics.Classify(snap.unbilled, snap.clients, snap.periods)
	summary := metrics.Aggregate(classified, snap.invoices, snap.clients, snap.periods)

	if err := s.cacheRepo.Set(ctx, tenantID, cacheKeyDashboard, summary, s.cacheTTL); err != nil {
		logger.Error("Failed to cache dashboard metrics", "tenant_id", tenantID, "error", err)
	}
	return &summary, nil
}

// TimeStats returns the time-tracking statistics payload.
func (s *MetricsService) TimeStats(ctx context.Context, tenantID string) (*models.TimeStats, error) {
	snap, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	allEntries, err := s.timeEntryRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading time entries: %v", ErrDataUnavailable, err)
	}

	classified := metrics.Classify(snap.unbilled, snap.clients, snap.periods)
	stats := metrics.ComputeTimeStats(allEntries, classified, snap.periods)
	return &stats, nil
}

// InvoiceStats returns the invoice statistics payload.
func (s *MetricsService) InvoiceStats(ctx context.Context, tenantID string) (*models.InvoiceStats, error) {
	invoices, err := s.invoiceRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading invoices: %v", ErrDataUnavailable, err)
	}
	stats := metrics.ComputeInvoiceStats(invoices, metrics.NewPeriodBoundaries(s.now()))
	return &stats, nil
}

// HealthScore computes the four-pillar business health score from the
// dashboard summary and the rolling time-entry windows.
func (s *MetricsService) HealthScore(ctx context.Context, tenantID string) (*models.HealthScore, error) {
	if cached, err := s.cacheRepo.Get(ctx, tenantID, cacheKeyHealthScore); err == nil && cached != nil {
		var score models.HealthScore
		if err := json.Unmarshal(cached.Data, &score); err == nil {
			return &score, nil
		}
	}

	snap, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	allEntries, err := s.timeEntryRepo.FindSince(ctx, tenantID, snap.periods.Rolling60Start)
	if err != nil {
		return nil, fmt.Errorf("%w: loading time entries: %v", ErrDataUnavailable, err)
	}

	classified := metrics.Classify(snap.unbilled, snap.clients, snap.periods)
	summary := metrics.Aggregate(classified, snap.invoices, snap.clients, snap.periods)
	rolling := metrics.ComputeRollingWindows(allEntries, snap.periods)

	score := s.scorer.Score(summary, rolling)

	if err := s.cacheRepo.Set(ctx, tenantID, cacheKeyHealthScore, score, s.cacheTTL); err != nil {
		logger.Error("Failed to cache health score", "tenant_id", tenantID, "error", err)
	}
	return &score, nil
}

// InvalidateCache drops a tenant's cached metrics, called after any write
// that changes the underlying records.
func (s *MetricsService) InvalidateCache(ctx context.Context, tenantID string) {
	for _, key := range []string{cacheKeyDashboard, cacheKeyHealthScore} {
		if err := s.cacheRepo.Invalidate(ctx, tenantID, key); err != nil {
			logger.Error("Failed to invalidate metrics cache", "tenant_id", tenantID, "key", key, "error", err)
		}
	}
}

// CleanExpiredCache removes stale cache rows, run periodically by the worker.
func (s *MetricsService) CleanExpiredCache(ctx context.Context) error {
	return s.cacheRepo.CleanExpired(ctx)
}
