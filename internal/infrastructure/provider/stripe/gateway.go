package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// Gateway implements provider.Gateway against the Stripe API. The client
// handle is owned by the composition root and shared read-only across
// concurrent event handlers.
type Gateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewGateway creates a Stripe gateway. An empty secret key is a
// misconfiguration that must stop startup.
func NewGateway(secretKey string, logger *zap.Logger) (*Gateway, error) {
	if secretKey == "" {
		return nil, domainErrors.ErrUninitializedGateway
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Gateway{
		api:    api,
		logger: logger,
	}, nil
}

// GetProviderName returns the provider name
func (g *Gateway) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// FetchSubscription retrieves the full subscription object by id.
func (g *Gateway) FetchSubscription(ctx context.Context, id string) (*provider.RawSubscription, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}

	sub, err := g.api.Subscriptions.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrSubscriptionNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", id, err)
	}

	return toRawSubscription(sub), nil
}

// CreateCustomer creates a billing customer and returns its id.
func (g *Gateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	g.logger.Info("Provider customer created",
		zap.String("customer_id", customer.ID))
	return customer.ID, nil
}

// toRawSubscription reduces Stripe's subscription object to the fields the
// sync core reads.
func toRawSubscription(sub *stripe.Subscription) *provider.RawSubscription {
	return &provider.RawSubscription{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		Customer:           customerRef(sub.Customer),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
	}
}

// customerRef maps Stripe's polymorphic customer field onto the tagged
// variant. An unexpanded customer carries only its id.
func customerRef(c *stripe.Customer) provider.CustomerRef {
	if c == nil {
		return provider.CustomerRef{}
	}
	if c.Deleted {
		return provider.CustomerRef{ID: c.ID, Expanded: true, Deleted: true}
	}
	if c.Email != "" || c.Created != 0 {
		return provider.CustomerRef{ID: c.ID, Expanded: true}
	}
	return provider.CustomerRef{ID: c.ID}
}
