package repository

import (
	"context"

	"github.com/factuurdesk/factuur-api/internal/models"
	"gorm.io/gorm"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Client, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]models.Client, error)
	MapByTenant(ctx context.Context, tenantID string) (map[string]models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, tenantID, id string) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

// MapByTenant returns the tenant's clients keyed by id, the shape the
// readiness classifier consumes.
func (r *clientRepository) MapByTenant(ctx context.Context, tenantID string) (map[string]models.Client, error) {
	clients, err := r.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Client, len(clients))
	for _, c := range clients {
		m[c.ID] = c
	}
	return m, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Client{}, "id = ?", id).Error
}
