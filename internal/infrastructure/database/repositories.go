package database

import (
	"github.com/wekeepgrowing/billing-sync/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Subscription            domainRepo.SubscriptionRepository
	CustomerMapping         domainRepo.IdentityMappingRepository
	ConnectedAccountMapping domainRepo.IdentityMappingRepository
	Webhook                 repository.WebhookRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Subscription:            repository.NewSubscriptionRepository(db, logger),
		CustomerMapping:         repository.NewCustomerMappingRepository(db),
		ConnectedAccountMapping: repository.NewConnectedAccountMappingRepository(db),
		Webhook:                 repository.NewWebhookRepository(db, logger),
	}
}
