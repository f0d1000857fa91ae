package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"go.uber.org/zap"
)

// SubscriptionSyncEngine drives the internal subscription state from provider
// lifecycle events. Each event is one independent unit of work: the engine
// keeps no queue, no dedup cache and no ordering buffer. Duplicate creation
// deliveries are rejected by the unique index on external_id at the storage
// boundary.
type SubscriptionSyncEngine struct {
	gateway          provider.Gateway
	translator       *SubscriptionTranslator
	subscriptionRepo domainRepo.SubscriptionRepository
	logger           *zap.Logger
}

// NewSubscriptionSyncEngine creates a new sync engine instance
func NewSubscriptionSyncEngine(
	gateway provider.Gateway,
	translator *SubscriptionTranslator,
	subscriptionRepo domainRepo.SubscriptionRepository,
	logger *zap.Logger,
) *SubscriptionSyncEngine {
	return &SubscriptionSyncEngine{
		gateway:          gateway,
		translator:       translator,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// HandleEvent processes one provider lifecycle event to completion. Every
// failure is logged here with full event context; the returned error exists
// only so the transport can journal the outcome — it must not block the
// provider's delivery.
func (e *SubscriptionSyncEngine) HandleEvent(ctx context.Context, event provider.Event) error {
	switch event.Kind {
	case provider.EventSubscriptionCreated:
		if err := e.handleCreated(ctx, event); err != nil {
			e.logger.Error("Failed to register subscription",
				zap.String("event_id", event.ID),
				zap.String("event_kind", string(event.Kind)),
				zap.String("subscription_id", event.Payload.ID),
				zap.Error(err))
			return err
		}
		return nil

	case provider.EventSubscriptionDeleted:
		if err := e.handleDeleted(ctx, event); err != nil {
			e.logger.Error("Failed to unregister subscription",
				zap.String("event_id", event.ID),
				zap.String("event_kind", string(event.Kind)),
				zap.String("subscription_id", event.Payload.ID),
				zap.Error(err))
			return err
		}
		return nil

	case provider.EventSubscriptionUpdated:
		// Update policy is undecided upstream; acknowledged and skipped.
		e.logger.Info("Ignoring subscription update event",
			zap.String("event_id", event.ID),
			zap.String("subscription_id", event.Payload.ID))
		return nil

	default:
		e.logger.Warn("Unhandled event kind",
			zap.String("event_id", event.ID),
			zap.String("event_kind", string(event.Kind)))
		return nil
	}
}

// handleCreated fetches the full subscription object, translates it and
// commits the batch. Any step failure aborts the event with no partial
// writes.
func (e *SubscriptionSyncEngine) handleCreated(ctx context.Context, event provider.Event) error {
	raw, err := e.gateway.FetchSubscription(ctx, event.Payload.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription %s: %w", event.Payload.ID, err)
	}

	subscription, err := e.translator.Translate(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to translate subscription %s: %w", raw.ID, err)
	}

	batch := []*entity.Subscription{subscription}
	if err := e.subscriptionRepo.AddSubscriptions(ctx, batch); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateSubscription) {
			// Redelivered creation event; the first delivery won.
			e.logger.Warn("Subscription already recorded, dropping duplicate delivery",
				zap.String("event_id", event.ID),
				zap.String("subscription_id", raw.ID))
			return nil
		}
		return fmt.Errorf("failed to persist subscription %s: %w", raw.ID, err)
	}

	e.logger.Info("Subscription registered",
		zap.String("subscription_id", raw.ID),
		zap.String("participant", subscription.Participant),
		zap.Bool("is_active", subscription.IsActive))
	return nil
}

// handleDeleted removes the internal record correlated with the provider's
// subscription id.
func (e *SubscriptionSyncEngine) handleDeleted(ctx context.Context, event provider.Event) error {
	subscription, err := e.subscriptionRepo.FindByExternalID(ctx, event.Payload.ID)
	if err != nil {
		return fmt.Errorf("failed to look up subscription %s: %w", event.Payload.ID, err)
	}
	if subscription == nil {
		return fmt.Errorf("%w: external id %s", domainErrors.ErrSubscriptionRecordNotFound, event.Payload.ID)
	}

	if err := e.subscriptionRepo.RemoveSubscription(ctx, subscription.InternalID); err != nil {
		return fmt.Errorf("failed to remove subscription %s: %w", event.Payload.ID, err)
	}

	e.logger.Info("Subscription unregistered",
		zap.String("subscription_id", event.Payload.ID),
		zap.Int64("internal_id", subscription.InternalID))
	return nil
}
