package repository

import (
	"context"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
)

type SubscriptionRepository interface {
	// AddSubscriptions persists a batch of new records. Returns
	// ErrDuplicateSubscription when an external id in the batch is already
	// stored; nothing from the batch is persisted in that case.
	AddSubscriptions(ctx context.Context, subscriptions []*entity.Subscription) error

	// RemoveSubscription deletes the record by internal id. Returns
	// ErrSubscriptionRecordNotFound when absent.
	RemoveSubscription(ctx context.Context, internalID int64) error

	// FindByExternalID returns the record correlated with the provider's
	// subscription id, or nil when none exists.
	FindByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error)

	// GetByParticipant returns all records owned by the participant.
	GetByParticipant(ctx context.Context, participant string) ([]*entity.Subscription, error)
}
