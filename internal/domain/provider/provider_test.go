package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEventKind(t *testing.T) {
	tests := []struct {
		eventType string
		expected  EventKind
	}{
		{"customer.subscription.created", EventSubscriptionCreated},
		{"customer.subscription.updated", EventSubscriptionUpdated},
		{"customer.subscription.deleted", EventSubscriptionDeleted},
		{"invoice.payment_succeeded", EventOther},
		{"checkout.session.completed", EventOther},
		{"", EventOther},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEventKind(tt.eventType))
		})
	}
}
