package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"gorm.io/gorm"
)

// MetricsCacheRepository caches computed metrics payloads per tenant with a
// TTL, so dashboard refreshes do not recompute on every request.
type MetricsCacheRepository interface {
	Get(ctx context.Context, tenantID, key string) (*models.MetricsCache, error)
	Set(ctx context.Context, tenantID, key string, data interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID, key string) error
	CleanExpired(ctx context.Context) error
}

type metricsCacheRepository struct {
	db *gorm.DB
}

// NewMetricsCacheRepository creates a new metrics cache repository
func NewMetricsCacheRepository(db *gorm.DB) MetricsCacheRepository {
	return &metricsCacheRepository{db: db}
}

func (r *metricsCacheRepository) Get(ctx context.Context, tenantID, key string) (*models.MetricsCache, error) {
	var cache models.MetricsCache
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cache_key = ? AND expires_at > ?", tenantID, key, time.Now()).
		First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

func (r *metricsCacheRepository) Set(ctx context.Context, tenantID, key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(ttl)

	var existing models.MetricsCache
	err = r.db.WithContext(ctx).
		Where("tenant_id = ? AND cache_key = ?", tenantID, key).
		First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"data":       jsonData,
			"expires_at": expiresAt,
			"updated_at": time.Now(),
		}).Error
	}

	cache := models.MetricsCache{
		TenantID:  tenantID,
		CacheKey:  key,
		Data:      jsonData,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).Create(&cache).Error
}

func (r *metricsCacheRepository) Invalidate(ctx context.Context, tenantID, key string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND cache_key = ?", tenantID, key).
		Delete(&models.MetricsCache{}).Error
}

func (r *metricsCacheRepository) CleanExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.MetricsCache{}).Error
}
