package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"gorm.io/gorm"
)

// Mock ClientRepository
type mockClientRepository struct {
	repository.ClientRepository
	mockMapByTenant func(ctx context.Context, tenantID string) (map[string]models.Client, error)
	mockFindByID    func(ctx context.Context, tenantID, id string) (*models.Client, error)
}

func (m *mockClientRepository) MapByTenant(ctx context.Context, tenantID string) (map[string]models.Client, error) {
	if m.mockMapByTenant != nil {
		return m.mockMapByTenant(ctx, tenantID)
	}
	return map[string]models.Client{}, nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Client, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, tenantID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock TimeEntryRepository
type mockTimeEntryRepository struct {
	repository.TimeEntryRepository
	mockFindUnbilled    func(ctx context.Context, tenantID string) ([]models.TimeEntry, error)
	mockFindAllByTenant func(ctx context.Context, tenantID string) ([]models.TimeEntry, error)
	mockFindSince       func(ctx context.Context, tenantID string, from time.Time) ([]models.TimeEntry, error)
	mockMarkInvoiced    func(ctx context.Context, tenantID string, entryIDs []string, invoiceID string) error
}

func (m *mockTimeEntryRepository) FindUnbilled(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	if m.mockFindUnbilled != nil {
		return m.mockFindUnbilled(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	if m.mockFindAllByTenant != nil {
		return m.mockFindAllByTenant(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) FindSince(ctx context.Context, tenantID string, from time.Time) ([]models.TimeEntry, error) {
	if m.mockFindSince != nil {
		return m.mockFindSince(ctx, tenantID, from)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) MarkInvoiced(ctx context.Context, tenantID string, entryIDs []string, invoiceID string) error {
	if m.mockMarkInvoiced != nil {
		return m.mockMarkInvoiced(ctx, tenantID, entryIDs, invoiceID)
	}
	return nil
}

// Mock InvoiceRepository
type mockInvoiceRepository struct {
	repository.InvoiceRepository
	mockFindByID        func(ctx context.Context, tenantID, id string) (*models.Invoice, error)
	mockFindAllByTenant func(ctx context.Context, tenantID string) ([]models.Invoice, error)
	mockFindByPeriod    func(ctx context.Context, tenantID string, from, to time.Time) ([]models.Invoice, error)
	mockFindSentPastDue func(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
	mockUpdate          func(ctx context.Context, invoice *models.Invoice) error
	mockUpdateStatus    func(ctx context.Context, tenantID, id, status string) error
	mockAddPayment      func(ctx context.Context, payment *models.Payment) error
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, tenantID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvoiceRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	if m.mockFindAllByTenant != nil {
		return m.mockFindAllByTenant(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockInvoiceRepository) FindByPeriod(ctx context.Context, tenantID string, from, to time.Time) ([]models.Invoice, error) {
	if m.mockFindByPeriod != nil {
		return m.mockFindByPeriod(ctx, tenantID, from, to)
	}
	return nil, nil
}

func (m *mockInvoiceRepository) FindSentPastDue(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	if m.mockFindSentPastDue != nil {
		return m.mockFindSentPastDue(ctx, asOf)
	}
	return nil, nil
}

func (m *mockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, tenantID, id, status)
	}
	return nil
}

func (m *mockInvoiceRepository) AddPayment(ctx context.Context, payment *models.Payment) error {
	if m.mockAddPayment != nil {
		return m.mockAddPayment(ctx, payment)
	}
	return nil
}

// Mock MetricsCacheRepository backed by a map
type mockMetricsCacheRepository struct {
	entries map[string]json.RawMessage
	getErr  error
	setErr  error
}

func newMockCache() *mockMetricsCacheRepository {
	return &mockMetricsCacheRepository{entries: map[string]json.RawMessage{}}
}

func (m *mockMetricsCacheRepository) Get(ctx context.Context, tenantID, key string) (*models.MetricsCache, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.entries[tenantID+"/"+key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.MetricsCache{TenantID: tenantID, CacheKey: key, Data: data}, nil
}

func (m *mockMetricsCacheRepository) Set(ctx context.Context, tenantID, key string, data interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.entries[tenantID+"/"+key] = raw
	return nil
}

func (m *mockMetricsCacheRepository) Invalidate(ctx context.Context, tenantID, key string) error {
	delete(m.entries, tenantID+"/"+key)
	return nil
}

func (m *mockMetricsCacheRepository) CleanExpired(ctx context.Context) error {
	return nil
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByEmail    func(ctx context.Context, email string) (*models.User, error)
	mockCreate         func(ctx context.Context, user *models.User) error
	mockTouchLastLogin func(ctx context.Context, id string, at time.Time) error
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.mockFindByEmail != nil {
		return m.mockFindByEmail(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.mockTouchLastLogin != nil {
		return m.mockTouchLastLogin(ctx, id, at)
	}
	return nil
}
