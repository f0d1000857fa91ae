package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/wekeepgrowing/billing-sync/internal/adapter/repository"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	"github.com/wekeepgrowing/billing-sync/internal/usecase"
	"go.uber.org/zap"
)

// WebhookHandler receives provider webhook deliveries, journals them and
// hands the normalized event to the sync engine. Once the signature checks
// out the response is always 200: processing failures are logged and
// journaled, never surfaced to the provider.
type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	webhookRepo   repository.WebhookRepository
	syncEngine    *usecase.SubscriptionSyncEngine
}

func NewWebhookHandler(
	logger *zap.Logger,
	webhookSecret string,
	webhookRepo repository.WebhookRepository,
	syncEngine *usecase.SubscriptionSyncEngine,
) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		webhookRepo:   webhookRepo,
		syncEngine:    syncEngine,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)

	if err != nil {
		h.logger.Error("Webhook signature verification failed",
			zap.Error(err),
			zap.String("signature", sig),
		)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed: " + err.Error(),
		})
	}

	h.logger.Info("Webhook event received",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID),
		zap.Time("created", time.Unix(event.Created, 0)),
	)

	ctx := c.Request().Context()

	if err := h.webhookRepo.SaveEvent(ctx, event.ID, string(event.Type), event.Data.Raw); err != nil {
		h.logger.Error("Failed to journal webhook event",
			zap.String("event_id", event.ID),
			zap.Error(err))
		// Journal failures do not block processing.
	}

	syncEvent := provider.Event{
		ID:      event.ID,
		Kind:    provider.NormalizeEventKind(string(event.Type)),
		Payload: extractRawSubscription(event.Data.Raw),
	}

	if procErr := h.syncEngine.HandleEvent(ctx, syncEvent); procErr != nil {
		if err := h.webhookRepo.MarkFailed(ctx, event.ID, procErr); err != nil {
			h.logger.Error("Failed to mark webhook event failed",
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	} else {
		if err := h.webhookRepo.MarkProcessed(ctx, event.ID); err != nil {
			h.logger.Error("Failed to mark webhook event processed",
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// extractRawSubscription pulls the fields the engine reads out of the event
// payload. The customer field is polymorphic: a plain id string or an
// expanded object that may be marked deleted.
func extractRawSubscription(raw json.RawMessage) provider.RawSubscription {
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return provider.RawSubscription{}
	}

	sub := provider.RawSubscription{}
	sub.ID, _ = data["id"].(string)
	sub.Status, _ = data["status"].(string)

	switch customer := data["customer"].(type) {
	case string:
		sub.Customer = provider.CustomerRef{ID: customer}
	case map[string]interface{}:
		id, _ := customer["id"].(string)
		deleted, _ := customer["deleted"].(bool)
		sub.Customer = provider.CustomerRef{ID: id, Expanded: true, Deleted: deleted}
	}

	if start, ok := data["current_period_start"].(float64); ok {
		sub.CurrentPeriodStart = int64(start)
	}
	if end, ok := data["current_period_end"].(float64); ok {
		sub.CurrentPeriodEnd = int64(end)
	}

	return sub
}
