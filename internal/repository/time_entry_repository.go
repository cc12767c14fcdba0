package repository

import (
	"context"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"gorm.io/gorm"
)

// TimeEntryRepository defines the interface for time entry data access
type TimeEntryRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.TimeEntry, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]models.TimeEntry, error)
	FindUnbilled(ctx context.Context, tenantID string) ([]models.TimeEntry, error)
	FindSince(ctx context.Context, tenantID string, from time.Time) ([]models.TimeEntry, error)
	Create(ctx context.Context, entry *models.TimeEntry) error
	Update(ctx context.Context, entry *models.TimeEntry) error
	MarkInvoiced(ctx context.Context, tenantID string, entryIDs []string, invoiceID string) error
	Delete(ctx context.Context, tenantID, id string) error
}

type timeEntryRepository struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) FindByID(ctx context.Context, tenantID, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

// FindUnbilled returns the billable, not-yet-invoiced entries the readiness
// classifier operates on.
func (r *timeEntryRepository) FindUnbilled(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND billable = ? AND invoiced = ?", tenantID, true, false).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timeEntryRepository) FindSince(ctx context.Context, tenantID string, from time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entry_date >= ?", tenantID, from).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// MarkInvoiced stamps entries with the invoice that billed them.
func (r *timeEntryRepository) MarkInvoiced(ctx context.Context, tenantID string, entryIDs []string, invoiceID string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.TimeEntry{}).
		Where("tenant_id = ? AND id IN ?", tenantID, entryIDs).
		Updates(map[string]interface{}{
			"invoiced":   true,
			"invoice_id": invoiceID,
		}).Error
}

func (r *timeEntryRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.TimeEntry{}, "id = ?", id).Error
}
