package provider

import (
	"context"
)

// Gateway defines the operations the sync core needs from the external
// payment provider. Transport concerns (retries, timeouts) belong to the
// implementation.
type Gateway interface {
	// FetchSubscription retrieves the provider's subscription object by id
	FetchSubscription(ctx context.Context, id string) (*RawSubscription, error)

	// CreateCustomer creates a billing customer on the provider side and
	// returns its external id
	CreateCustomer(ctx context.Context, email string) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// CustomerRef is the provider's polymorphic customer reference on a raw
// subscription: either a plain id string or an expanded customer object that
// may be marked deleted.
type CustomerRef struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
	Deleted  bool   `json:"deleted"`
}

// RawSubscription is the provider's native subscription representation,
// reduced to the fields the sync core reads. Period bounds are epoch seconds
// as delivered by the provider.
type RawSubscription struct {
	ID                 string      `json:"id"`
	Status             string      `json:"status"`
	Customer           CustomerRef `json:"customer"`
	CurrentPeriodStart int64       `json:"current_period_start"`
	CurrentPeriodEnd   int64       `json:"current_period_end"`
}

// EventKind is the normalized lifecycle event type consumed by the sync
// engine.
type EventKind string

const (
	EventSubscriptionCreated EventKind = "created"
	EventSubscriptionUpdated EventKind = "updated"
	EventSubscriptionDeleted EventKind = "deleted"
	EventOther               EventKind = "other"
)

// Event is one provider lifecycle delivery after normalization.
type Event struct {
	ID      string          `json:"id"`
	Kind    EventKind       `json:"kind"`
	Payload RawSubscription `json:"payload"`
}

// NormalizeEventKind maps the provider's raw event type strings onto the
// engine's event kinds.
func NormalizeEventKind(eventType string) EventKind {
	switch eventType {
	case "customer.subscription.created":
		return EventSubscriptionCreated
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionDeleted
	default:
		return EventOther
	}
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)
