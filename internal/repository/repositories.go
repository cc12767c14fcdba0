package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	TimeEntry    TimeEntryRepository
	Invoice      InvoiceRepository
	MetricsCache MetricsCacheRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		TimeEntry:    NewTimeEntryRepository(db),
		Invoice:      NewInvoiceRepository(db),
		MetricsCache: NewMetricsCacheRepository(db),
	}
}
