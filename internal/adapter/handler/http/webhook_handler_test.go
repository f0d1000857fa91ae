package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
)

func TestExtractRawSubscription_StringCustomer(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "sub_1",
		"status": "active",
		"customer": "cus_1",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000
	}`)

	sub := extractRawSubscription(raw)

	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, provider.CustomerRef{ID: "cus_1"}, sub.Customer)
	assert.Equal(t, int64(1700000000), sub.CurrentPeriodStart)
	assert.Equal(t, int64(1702592000), sub.CurrentPeriodEnd)
}

func TestExtractRawSubscription_ExpandedCustomer(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "sub_2",
		"status": "canceled",
		"customer": {"id": "cus_2", "email": "alice@example.com"}
	}`)

	sub := extractRawSubscription(raw)

	assert.Equal(t, "sub_2", sub.ID)
	assert.Equal(t, provider.CustomerRef{ID: "cus_2", Expanded: true}, sub.Customer)
}

func TestExtractRawSubscription_DeletedCustomer(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "sub_3",
		"status": "canceled",
		"customer": {"id": "cus_3", "deleted": true}
	}`)

	sub := extractRawSubscription(raw)

	assert.Equal(t, provider.CustomerRef{ID: "cus_3", Expanded: true, Deleted: true}, sub.Customer)
}

func TestExtractRawSubscription_MalformedPayload(t *testing.T) {
	sub := extractRawSubscription(json.RawMessage(`not json`))
	assert.Equal(t, provider.RawSubscription{}, sub)
}
