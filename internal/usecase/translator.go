package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"go.uber.org/zap"
)

// Classifier decides the subscription type for a raw provider subscription.
// The real selection rule depends on plan metadata that is not modeled yet, so
// the strategy is injected.
type Classifier interface {
	Classify(raw *provider.RawSubscription) (entity.SubscriptionType, error)
}

// StaticClassifier returns the same type for every subscription.
type StaticClassifier struct {
	Type entity.SubscriptionType
}

func (c StaticClassifier) Classify(_ *provider.RawSubscription) (entity.SubscriptionType, error) {
	return c.Type, nil
}

// SubscriptionTranslator builds internal subscription records from the
// provider's raw subscription objects. The participant is resolved through
// the customer mapping at translation time and baked into the record.
type SubscriptionTranslator struct {
	customerMappings domainRepo.IdentityMappingRepository
	classifier       Classifier
	logger           *zap.Logger
}

// NewSubscriptionTranslator creates a new translator instance
func NewSubscriptionTranslator(
	customerMappings domainRepo.IdentityMappingRepository,
	classifier Classifier,
	logger *zap.Logger,
) *SubscriptionTranslator {
	return &SubscriptionTranslator{
		customerMappings: customerMappings,
		classifier:       classifier,
		logger:           logger,
	}
}

// Translate converts a raw provider subscription into the internal record.
// A missing customer mapping is a hard error; the translator never creates
// mappings.
func (t *SubscriptionTranslator) Translate(ctx context.Context, raw *provider.RawSubscription) (*entity.Subscription, error) {
	participant, err := t.resolveParticipant(ctx, raw.Customer)
	if err != nil {
		return nil, err
	}

	subscriptionType, err := t.classifier.Classify(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to classify subscription %s: %w", raw.ID, err)
	}

	details := entity.SubscriptionDetail{
		StartDate: time.Unix(raw.CurrentPeriodStart, 0).UTC(),
	}
	if raw.CurrentPeriodEnd > 0 {
		endDate := time.Unix(raw.CurrentPeriodEnd, 0).UTC()
		details.EndDate = &endDate
	}

	// Resource linking is deferred until the catalog integration exists;
	// Resource/Resources stay empty.
	return &entity.Subscription{
		ExternalID:       raw.ID,
		IsActive:         raw.Status == "active",
		Participant:      participant,
		SubscriptionType: subscriptionType,
		Details:          details,
	}, nil
}

// resolveParticipant maps the provider's polymorphic customer reference onto
// a participant through the customer mapping table.
func (t *SubscriptionTranslator) resolveParticipant(ctx context.Context, ref provider.CustomerRef) (string, error) {
	switch {
	case !ref.Expanded && ref.ID != "":
		return t.customerMappings.ResolveParticipant(ctx, ref.ID)
	case ref.Expanded && ref.Deleted:
		return "", domainErrors.ErrCustomerDeleted
	case ref.Expanded && ref.ID != "":
		return t.customerMappings.ResolveParticipant(ctx, ref.ID)
	default:
		return "", domainErrors.ErrUnresolvableCustomer
	}
}
