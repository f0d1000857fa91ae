package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionType selects which field of SubscriptionDetail carries the
// validity rule for a subscription.
type SubscriptionType string

const (
	SubscriptionTypeLimitDate  SubscriptionType = "limit_date"
	SubscriptionTypePayAmount  SubscriptionType = "pay_amount"
	SubscriptionTypeUsageCount SubscriptionType = "usage_count"
)

// SubscriptionDetail holds the validity data of a subscription. Only the
// field matching the subscription type is meaningful; callers must treat the
// others as absent.
type SubscriptionDetail struct {
	LimitDate  *time.Time       `json:"limit_date,omitempty"`
	PayAmount  *decimal.Decimal `json:"pay_amount,omitempty"`
	UsageCount *int64           `json:"usage_count,omitempty"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
}

// Subscription is the internal billing record for a participant. ExternalID
// correlates it with the provider's subscription object and is unique among
// stored records.
type Subscription struct {
	InternalID       int64              `json:"internal_id,omitempty"`
	ExternalID       string             `json:"external_id,omitempty"`
	IsActive         bool               `json:"is_active"`
	Participant      string             `json:"participant"`
	SubscriptionType SubscriptionType   `json:"subscription_type"`
	Resource         *string            `json:"resource,omitempty"`
	Resources        []string           `json:"resources,omitempty"`
	Details          SubscriptionDetail `json:"details"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
